package handler

import (
	"net/http"

	"github.com/a810439322/moneyup/internal/store"
	"github.com/a810439322/moneyup/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HistoryHandler 负责历史记录查询接口
type HistoryHandler struct {
	Store *store.SQLStore
	Log   *logrus.Logger
}

func NewHistoryHandler(s *store.SQLStore, log *logrus.Logger) *HistoryHandler {
	return &HistoryHandler{Store: s, Log: log}
}

// ListHistory 返回全部变动记录，按时间倒序
func (h *HistoryHandler) ListHistory(c *gin.Context) {
	history, err := h.Store.ListHistory(c.Request.Context())
	if err != nil {
		h.Log.WithError(err).Error("获取历史记录失败")
		util.Fail(c, http.StatusInternalServerError, "获取历史记录失败")
		return
	}
	c.JSON(http.StatusOK, history)
}

package handler

import (
	"net/http"
	"time"

	"github.com/a810439322/moneyup/internal/store"
	"github.com/a810439322/moneyup/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SystemHandler 负责统计、健康检查和清空数据
type SystemHandler struct {
	Store *store.SQLStore
	Log   *logrus.Logger
}

func NewSystemHandler(s *store.SQLStore, log *logrus.Logger) *SystemHandler {
	return &SystemHandler{Store: s, Log: log}
}

// Statistics 返回总资产
func (h *SystemHandler) Statistics(c *gin.Context) {
	total, err := h.Store.TotalAssets(c.Request.Context())
	if err != nil {
		h.Log.WithError(err).Error("获取统计数据失败")
		util.Fail(c, http.StatusInternalServerError, "获取统计数据失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"totalAssets": total,
	})
}

// Health 健康检查
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now(),
	})
}

// Clear 清空所有数据并重新写入默认标签
func (h *SystemHandler) Clear(c *gin.Context) {
	if err := h.Store.Clear(c.Request.Context()); err != nil {
		h.Log.WithError(err).Error("清空数据失败")
		util.Fail(c, http.StatusInternalServerError, "清空数据失败")
		return
	}
	util.Message(c, http.StatusOK, "清空成功")
}

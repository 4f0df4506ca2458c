package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/a810439322/moneyup/internal/models"
	"github.com/a810439322/moneyup/internal/store"
	"github.com/a810439322/moneyup/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// DataHandler 负责交换文档的导出和导入
type DataHandler struct {
	Store *store.SQLStore
	Log   *logrus.Logger
}

func NewDataHandler(s *store.SQLStore, log *logrus.Logger) *DataHandler {
	return &DataHandler{Store: s, Log: log}
}

// Export 导出三个集合加导出时间，作为附件下载
func (h *DataHandler) Export(c *gin.Context) {
	doc, err := h.Store.Export(c.Request.Context())
	if err != nil {
		h.Log.WithError(err).Error("导出数据失败")
		util.Fail(c, http.StatusInternalServerError, "导出数据失败")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"moneyup_%s.json\"",
		time.Now().Format("2006-01-02")))
	c.JSON(http.StatusOK, doc)
}

// Import 接收交换文档：先清空，再按 标签→资产→历史 的顺序原样写回。
// 导入不会产生新的历史记录，资产时间戳保持原值。
func (h *DataHandler) Import(c *gin.Context) {
	var doc models.ExportDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		util.Fail(c, http.StatusBadRequest, "数据格式错误")
		return
	}

	if err := h.Store.Import(c.Request.Context(), &doc); err != nil {
		h.Log.WithError(err).Error("导入数据失败")
		util.Fail(c, http.StatusBadRequest, "导入数据失败")
		return
	}
	util.Message(c, http.StatusOK, "导入成功")
}

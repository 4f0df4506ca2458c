package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/a810439322/moneyup/internal/models"
	"github.com/a810439322/moneyup/internal/store"
	"github.com/a810439322/moneyup/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// SheetHandler 把资产清单导出为 CSV / XLSX
type SheetHandler struct {
	Store *store.SQLStore
	Log   *logrus.Logger
}

func NewSheetHandler(s *store.SQLStore, log *logrus.Logger) *SheetHandler {
	return &SheetHandler{Store: s, Log: log}
}

func (h *SheetHandler) loadRows(c *gin.Context) ([]models.Asset, map[uint]string, bool) {
	ctx := c.Request.Context()
	assets, err := h.Store.ListAssets(ctx)
	if err != nil {
		h.Log.WithError(err).Error("获取资产失败")
		util.Fail(c, http.StatusInternalServerError, "获取资产失败")
		return nil, nil, false
	}
	tags, err := h.Store.ListTags(ctx)
	if err != nil {
		h.Log.WithError(err).Error("获取标签失败")
		util.Fail(c, http.StatusInternalServerError, "获取标签失败")
		return nil, nil, false
	}
	tagNames := make(map[uint]string, len(tags))
	for _, t := range tags {
		tagNames[t.ID] = t.Name
	}
	return assets, tagNames, true
}

// 标签被删后资产还留着 tagId，对应不上就显示空白
func tagName(tagNames map[uint]string, tagID *uint) string {
	if tagID == nil {
		return ""
	}
	return tagNames[*tagID]
}

func description(d *string) string {
	if d == nil {
		return ""
	}
	return *d
}

// ExportCSV 导出资产清单为 CSV
func (h *SheetHandler) ExportCSV(c *gin.Context) {
	assets, tagNames, ok := h.loadRows(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"assets_%s.csv\"",
		time.Now().Format("20060102")))

	// UTF-8 BOM（让 Excel 正确识别中文）
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write([]string{"名称", "金额", "分类", "备注", "创建时间", "更新时间"})

	for _, a := range assets {
		writer.Write([]string{
			a.Name,
			strconv.FormatFloat(a.Amount, 'f', 2, 64),
			tagName(tagNames, a.TagID),
			description(a.Description),
			a.CreateTime.Format("2006-01-02 15:04:05"),
			a.UpdateTime.Format("2006-01-02 15:04:05"),
		})
	}
}

// ExportXLSX 导出资产清单为 XLSX
func (h *SheetHandler) ExportXLSX(c *gin.Context) {
	assets, tagNames, ok := h.loadRows(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	sheetName := "资产明细"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, "创建工作表失败")
		return
	}
	f.SetActiveSheet(index)

	headers := []string{"名称", "金额", "分类", "备注", "创建时间", "更新时间"}
	for i, hd := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, hd)
	}

	for idx, a := range assets {
		row := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), a.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), a.Amount)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), tagName(tagNames, a.TagID))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), description(a.Description))
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), a.CreateTime.Format("2006-01-02 15:04:05"))
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), a.UpdateTime.Format("2006-01-02 15:04:05"))
	}

	f.SetColWidth(sheetName, "A", "A", 18)
	f.SetColWidth(sheetName, "B", "B", 14)
	f.SetColWidth(sheetName, "C", "C", 12)
	f.SetColWidth(sheetName, "D", "D", 30)
	f.SetColWidth(sheetName, "E", "F", 20)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"assets_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Fail(c, http.StatusInternalServerError, "导出失败")
	}
}

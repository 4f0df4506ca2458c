package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a810439322/moneyup/internal/config"
	"github.com/a810439322/moneyup/internal/database"
	"github.com/a810439322/moneyup/internal/models"
	"github.com/a810439322/moneyup/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取 sql db 失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("迁移失败: %v", err)
	}
	if err := database.SeedDefaultTags(db); err != nil {
		t.Fatalf("写入默认标签失败: %v", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		Backup: config.BackupConfig{Dir: t.TempDir()},
		CORS:   config.CORSConfig{Origins: []string{"*"}},
	}
	return SetupRouter(cfg, store.NewSQLStore(db, log), log)
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("编码请求失败: %v", err)
		}
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("解析响应失败: %v\n%s", err, w.Body.String())
	}
	return out
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	resp := decode[map[string]any](t, w)
	if resp["status"] != "ok" {
		t.Errorf("status = %v, want ok", resp["status"])
	}
	if resp["timestamp"] == nil {
		t.Error("应返回 timestamp")
	}
}

func TestCreateAndListAssets(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/assets", gin.H{
		"name":        "招行储蓄",
		"amount":      25000.5,
		"tagId":       2,
		"description": "工资卡",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\n%s", w.Code, w.Body.String())
	}
	created := decode[models.Asset](t, w)
	if created.ID != 1 {
		t.Errorf("id = %d, want 1", created.ID)
	}
	if created.CreateTime.IsZero() || created.UpdateTime.IsZero() {
		t.Error("时间戳应自动填充")
	}

	w = doJSON(t, r, http.MethodGet, "/api/assets", nil)
	assets := decode[[]models.Asset](t, w)
	if len(assets) != 1 {
		t.Fatalf("资产数 = %d, want 1", len(assets))
	}
	got := assets[0]
	if got.Name != "招行储蓄" || got.Amount != 25000.5 {
		t.Errorf("资产字段不匹配: %+v", got)
	}
	if got.TagID == nil || *got.TagID != 2 {
		t.Errorf("tagId = %v, want 2", got.TagID)
	}
	if got.Description == nil || *got.Description != "工资卡" {
		t.Errorf("description = %v, want 工资卡", got.Description)
	}
}

func TestCreateAsset_Invalid(t *testing.T) {
	r := newTestRouter(t)

	// 缺名称
	w := doJSON(t, r, http.MethodPost, "/api/assets", gin.H{"amount": 100})
	if w.Code != http.StatusBadRequest {
		t.Errorf("缺名称 status = %d, want 400", w.Code)
	}

	// 负金额
	w = doJSON(t, r, http.MethodPost, "/api/assets", gin.H{"name": "负债", "amount": -1})
	if w.Code != http.StatusBadRequest {
		t.Errorf("负金额 status = %d, want 400", w.Code)
	}

	// 名称全空白
	w = doJSON(t, r, http.MethodPost, "/api/assets", gin.H{"name": "   ", "amount": 1})
	if w.Code != http.StatusBadRequest {
		t.Errorf("空白名称 status = %d, want 400", w.Code)
	}

	// 名称超长
	w = doJSON(t, r, http.MethodPost, "/api/assets", gin.H{"name": strings.Repeat("长", 65), "amount": 1})
	if w.Code != http.StatusBadRequest {
		t.Errorf("超长名称 status = %d, want 400", w.Code)
	}
}

func TestUpdateAsset_HistorySemantics(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/assets", gin.H{"name": "基金", "amount": 1000})
	created := decode[models.Asset](t, w)

	// 金额不变，只改名：不产生 update 历史
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/assets/%d", created.ID),
		gin.H{"name": "指数基金", "amount": 1000})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\n%s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/history", nil)
	history := decode[[]models.History](t, w)
	if len(history) != 1 {
		t.Fatalf("history len = %d, want 1 (仅 add)", len(history))
	}

	// 金额变化：恰好一条 update 记录
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/assets/%d", created.ID),
		gin.H{"name": "指数基金", "amount": 1500})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/history", nil)
	history = decode[[]models.History](t, w)
	if len(history) != 2 {
		t.Fatalf("history len = %d, want 2", len(history))
	}
	record := history[0]
	if record.Type != "update" {
		t.Fatalf("最新记录 type = %q, want update", record.Type)
	}
	if record.OldAmount == nil || *record.OldAmount != 1000 {
		t.Errorf("oldAmount = %v, want 1000", record.OldAmount)
	}
	if record.NewAmount == nil || *record.NewAmount != 1500 {
		t.Errorf("newAmount = %v, want 1500", record.NewAmount)
	}
}

func TestUpdateAsset_NotFound(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPut, "/api/assets/99", gin.H{"name": "无", "amount": 1})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDeleteAsset(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/assets", gin.H{"name": "旧车", "amount": 80000})
	created := decode[models.Asset](t, w)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/assets/%d", created.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	resp := decode[map[string]string](t, w)
	if resp["message"] != "删除成功" {
		t.Errorf("message = %q, want 删除成功", resp["message"])
	}

	w = doJSON(t, r, http.MethodGet, "/api/assets", nil)
	if assets := decode[[]models.Asset](t, w); len(assets) != 0 {
		t.Errorf("删除后资产数 = %d, want 0", len(assets))
	}

	w = doJSON(t, r, http.MethodGet, "/api/history", nil)
	history := decode[[]models.History](t, w)
	if len(history) != 2 {
		t.Fatalf("history len = %d, want 2", len(history))
	}
	if history[0].Type != "delete" {
		t.Errorf("最新记录 type = %q, want delete", history[0].Type)
	}
	if history[0].Amount == nil || *history[0].Amount != 80000 {
		t.Errorf("delete 记录金额 = %v, want 80000", history[0].Amount)
	}

	// 再删一次：404
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/assets/%d", created.ID), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("重复删除 status = %d, want 404", w.Code)
	}
	errResp := decode[map[string]string](t, w)
	if errResp["error"] != "资产不存在" {
		t.Errorf("error = %q, want 资产不存在", errResp["error"])
	}
}

func TestAssetsByTag(t *testing.T) {
	r := newTestRouter(t)

	doJSON(t, r, http.MethodPost, "/api/assets", gin.H{"name": "现金", "amount": 1, "tagId": 1})
	doJSON(t, r, http.MethodPost, "/api/assets", gin.H{"name": "存款", "amount": 2, "tagId": 2})
	doJSON(t, r, http.MethodPost, "/api/assets", gin.H{"name": "零钱", "amount": 3, "tagId": 1})

	w := doJSON(t, r, http.MethodGet, "/api/assets/by-tag/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	assets := decode[[]models.Asset](t, w)
	if len(assets) != 2 {
		t.Errorf("tag 1 资产数 = %d, want 2", len(assets))
	}
}

func TestStatistics(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/statistics", nil)
	resp := decode[map[string]float64](t, w)
	if resp["totalAssets"] != 0 {
		t.Errorf("空库 totalAssets = %f, want 0", resp["totalAssets"])
	}

	doJSON(t, r, http.MethodPost, "/api/assets", gin.H{"name": "a", "amount": 100.5})
	doJSON(t, r, http.MethodPost, "/api/assets", gin.H{"name": "b", "amount": 200.25})

	w = doJSON(t, r, http.MethodGet, "/api/statistics", nil)
	resp = decode[map[string]float64](t, w)
	if resp["totalAssets"] != 300.75 {
		t.Errorf("totalAssets = %f, want 300.75", resp["totalAssets"])
	}
}

func TestTags(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/tags", nil)
	tags := decode[[]models.Tag](t, w)
	if len(tags) != 6 {
		t.Fatalf("默认标签数 = %d, want 6", len(tags))
	}
	if tags[0].Name != "现金" || tags[0].Color != "#34C759" {
		t.Errorf("首个默认标签 = %s/%s", tags[0].Name, tags[0].Color)
	}

	w = doJSON(t, r, http.MethodPost, "/api/tags", gin.H{"name": "数字资产", "color": "#112233"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\n%s", w.Code, w.Body.String())
	}
	created := decode[models.Tag](t, w)
	if created.ID != 7 {
		t.Errorf("新标签 id = %d, want 7", created.ID)
	}

	// 重名：唯一索引拒绝
	w = doJSON(t, r, http.MethodPost, "/api/tags", gin.H{"name": "数字资产", "color": "#112233"})
	if w.Code != http.StatusInternalServerError {
		t.Errorf("重名标签 status = %d, want 500", w.Code)
	}

	// 非法颜色
	w = doJSON(t, r, http.MethodPost, "/api/tags", gin.H{"name": "新", "color": "red"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("非法颜色 status = %d, want 400", w.Code)
	}

	w = doJSON(t, r, http.MethodPut, "/api/tags/7", gin.H{"name": "加密资产", "color": "#445566"})
	if w.Code != http.StatusOK {
		t.Fatalf("更新标签 status = %d, want 200", w.Code)
	}

	w = doJSON(t, r, http.MethodDelete, "/api/tags/7", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("删除标签 status = %d, want 200", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/api/tags", nil)
	if tags := decode[[]models.Tag](t, w); len(tags) != 6 {
		t.Errorf("删除后标签数 = %d, want 6", len(tags))
	}
}

func TestUpdateTag_NotFound(t *testing.T) {
	r := newTestRouter(t)

	// 更新不存在的标签返回 404，不应悄悄插入
	w := doJSON(t, r, http.MethodPut, "/api/tags/99", gin.H{"name": "幽灵", "color": "#000000"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404\n%s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/tags", nil)
	if tags := decode[[]models.Tag](t, w); len(tags) != 6 {
		t.Errorf("标签数 = %d, want 6", len(tags))
	}
}

func TestClearReseedsDefaults(t *testing.T) {
	r := newTestRouter(t)

	doJSON(t, r, http.MethodPost, "/api/assets", gin.H{"name": "现金", "amount": 10})
	doJSON(t, r, http.MethodPost, "/api/tags", gin.H{"name": "数字资产", "color": "#112233"})

	w := doJSON(t, r, http.MethodDelete, "/api/clear", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/assets", nil)
	if assets := decode[[]models.Asset](t, w); len(assets) != 0 {
		t.Errorf("清空后资产数 = %d, want 0", len(assets))
	}
	w = doJSON(t, r, http.MethodGet, "/api/history", nil)
	if history := decode[[]models.History](t, w); len(history) != 0 {
		t.Errorf("清空后历史数 = %d, want 0", len(history))
	}
	w = doJSON(t, r, http.MethodGet, "/api/tags", nil)
	tags := decode[[]models.Tag](t, w)
	if len(tags) != 6 {
		t.Fatalf("清空后标签数 = %d, want 6", len(tags))
	}
	want := models.DefaultTags()
	for i, tag := range tags {
		if tag.Name != want[i].Name || tag.Color != want[i].Color {
			t.Errorf("标签 %d = %s/%s, want %s/%s", i, tag.Name, tag.Color, want[i].Name, want[i].Color)
		}
	}
}

func TestExportImportEndpoints(t *testing.T) {
	r := newTestRouter(t)

	doJSON(t, r, http.MethodPost, "/api/assets", gin.H{"name": "现金", "amount": 100, "tagId": 1})
	doJSON(t, r, http.MethodPost, "/api/assets", gin.H{"name": "基金", "amount": 2000, "tagId": 3})

	w := doJSON(t, r, http.MethodGet, "/api/export", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("导出 status = %d, want 200", w.Code)
	}
	doc := decode[models.ExportDocument](t, w)
	if len(doc.Assets) != 2 || len(doc.Tags) != 6 || len(doc.History) != 2 {
		t.Fatalf("导出内容不完整: %d 资产 %d 标签 %d 历史",
			len(doc.Assets), len(doc.Tags), len(doc.History))
	}
	if doc.ExportTime.IsZero() {
		t.Error("exportTime 应填充")
	}

	// 清空后导入，应完整恢复且不产生新历史
	doJSON(t, r, http.MethodDelete, "/api/clear", nil)

	w = doJSON(t, r, http.MethodPost, "/api/import", doc)
	if w.Code != http.StatusOK {
		t.Fatalf("导入 status = %d, want 200\n%s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/assets", nil)
	assets := decode[[]models.Asset](t, w)
	if len(assets) != 2 {
		t.Fatalf("导入后资产数 = %d, want 2", len(assets))
	}
	w = doJSON(t, r, http.MethodGet, "/api/history", nil)
	if history := decode[[]models.History](t, w); len(history) != 2 {
		t.Errorf("导入后历史数 = %d, want 2 (导入不产生历史)", len(history))
	}
}

func TestImport_Malformed(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/import", bytes.NewBufferString("not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestBackupRoundTrip(t *testing.T) {
	r := newTestRouter(t)

	doJSON(t, r, http.MethodPost, "/api/assets", gin.H{"name": "现金", "amount": 100})

	w := doJSON(t, r, http.MethodPost, "/api/backups", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("创建备份 status = %d, want 200\n%s", w.Code, w.Body.String())
	}
	created := decode[map[string]any](t, w)
	file, _ := created["file"].(string)
	if file == "" {
		t.Fatal("应返回备份文件名")
	}

	w = doJSON(t, r, http.MethodGet, "/api/backups", nil)
	backups := decode[[]map[string]any](t, w)
	if len(backups) != 1 {
		t.Fatalf("备份数 = %d, want 1", len(backups))
	}

	// 清空后从备份恢复
	doJSON(t, r, http.MethodDelete, "/api/clear", nil)
	w = doJSON(t, r, http.MethodPost, "/api/backups/"+file+"/restore", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("恢复 status = %d, want 200\n%s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/assets", nil)
	assets := decode[[]models.Asset](t, w)
	if len(assets) != 1 || assets[0].Name != "现金" {
		t.Errorf("恢复后资产不匹配: %+v", assets)
	}

	// 不存在的备份
	w = doJSON(t, r, http.MethodPost, "/api/backups/missing.json/restore", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("缺失备份 status = %d, want 404", w.Code)
	}
}

func TestExportCSV(t *testing.T) {
	r := newTestRouter(t)

	doJSON(t, r, http.MethodPost, "/api/assets", gin.H{"name": "现金", "amount": 100, "tagId": 1})

	w := doJSON(t, r, http.MethodGet, "/api/export/csv", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !bytes.HasPrefix(w.Body.Bytes(), []byte{0xEF, 0xBB, 0xBF}) {
		t.Error("CSV 应带 UTF-8 BOM")
	}
	for _, want := range []string{"名称", "现金", "100.00"} {
		if !bytes.Contains([]byte(body), []byte(want)) {
			t.Errorf("CSV 缺少 %q:\n%s", want, body)
		}
	}
}

func TestExportXLSX(t *testing.T) {
	r := newTestRouter(t)

	doJSON(t, r, http.MethodPost, "/api/assets", gin.H{"name": "现金", "amount": 100})

	w := doJSON(t, r, http.MethodGet, "/api/export/xlsx", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("Content-Type = %q", ct)
	}
	if w.Body.Len() == 0 {
		t.Error("XLSX 内容为空")
	}
}

package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/a810439322/moneyup/internal/models"
	"github.com/a810439322/moneyup/internal/store"
	"github.com/a810439322/moneyup/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// BackupHandler 负责服务端快照备份：把交换文档写成 JSON 文件，可列出和恢复
type BackupHandler struct {
	Store     *store.SQLStore
	Log       *logrus.Logger
	BackupDir string
}

func NewBackupHandler(s *store.SQLStore, log *logrus.Logger, backupDir string) *BackupHandler {
	return &BackupHandler{Store: s, Log: log, BackupDir: backupDir}
}

type backupInfo struct {
	File    string    `json:"file"`
	Size    int64     `json:"size"`
	Created time.Time `json:"created"`
}

// CreateBackup 生成一份快照文件，文件名带时间和随机后缀避免覆盖
func (h *BackupHandler) CreateBackup(c *gin.Context) {
	doc, err := h.Store.Export(c.Request.Context())
	if err != nil {
		h.Log.WithError(err).Error("导出数据失败")
		util.Fail(c, http.StatusInternalServerError, "创建备份失败")
		return
	}

	if err := os.MkdirAll(h.BackupDir, 0o755); err != nil {
		h.Log.WithError(err).Error("创建备份目录失败")
		util.Fail(c, http.StatusInternalServerError, "创建备份失败")
		return
	}

	name := fmt.Sprintf("backup_%s_%s.json",
		time.Now().Format("20060102150405"), uuid.NewString()[:8])

	buf, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, "创建备份失败")
		return
	}
	if err := os.WriteFile(filepath.Join(h.BackupDir, name), buf, 0o644); err != nil {
		h.Log.WithError(err).Error("写入备份文件失败")
		util.Fail(c, http.StatusInternalServerError, "创建备份失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"file":    name,
		"assets":  len(doc.Assets),
		"tags":    len(doc.Tags),
		"history": len(doc.History),
	})
}

// ListBackups 列出备份目录下的快照文件
func (h *BackupHandler) ListBackups(c *gin.Context) {
	entries, err := os.ReadDir(h.BackupDir)
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusOK, []backupInfo{})
			return
		}
		h.Log.WithError(err).Error("读取备份目录失败")
		util.Fail(c, http.StatusInternalServerError, "获取备份列表失败")
		return
	}

	backups := make([]backupInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, backupInfo{
			File:    entry.Name(),
			Size:    info.Size(),
			Created: info.ModTime(),
		})
	}
	c.JSON(http.StatusOK, backups)
}

// RestoreBackup 从指定快照恢复，走和导入一样的流程
func (h *BackupHandler) RestoreBackup(c *gin.Context) {
	// 只取文件名部分，防止路径穿越
	name := filepath.Base(c.Param("file"))
	if name == "" || name == "." || !strings.HasSuffix(name, ".json") {
		util.Fail(c, http.StatusBadRequest, "备份文件名不合法")
		return
	}

	buf, err := os.ReadFile(filepath.Join(h.BackupDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			util.Fail(c, http.StatusNotFound, "备份不存在")
			return
		}
		h.Log.WithError(err).Error("读取备份文件失败")
		util.Fail(c, http.StatusInternalServerError, "恢复备份失败")
		return
	}

	var doc models.ExportDocument
	if err := json.Unmarshal(buf, &doc); err != nil {
		util.Fail(c, http.StatusBadRequest, "备份文件格式错误")
		return
	}

	if err := h.Store.Import(c.Request.Context(), &doc); err != nil {
		h.Log.WithError(err).Error("恢复备份失败")
		util.Fail(c, http.StatusInternalServerError, "恢复备份失败")
		return
	}
	util.Message(c, http.StatusOK, "恢复成功")
}

package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/a810439322/moneyup/internal/models"
	"github.com/a810439322/moneyup/internal/store"
	"github.com/a810439322/moneyup/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AssetHandler 负责资产相关接口
type AssetHandler struct {
	Store *store.SQLStore
	Log   *logrus.Logger
}

func NewAssetHandler(s *store.SQLStore, log *logrus.Logger) *AssetHandler {
	return &AssetHandler{Store: s, Log: log}
}

// assetReq 新建/更新资产的请求体。时间戳是可选项：不传时由存储层填充当前
// 时间，传了就原样保留（导入场景）。
type assetReq struct {
	Name        string     `json:"name" binding:"required"`
	Amount      float64    `json:"amount"`
	TagID       *uint      `json:"tagId"`
	Description *string    `json:"description"`
	CreateTime  *time.Time `json:"createTime"`
	UpdateTime  *time.Time `json:"updateTime"`
}

// ListAssets 返回所有资产，按更新时间倒序
func (h *AssetHandler) ListAssets(c *gin.Context) {
	assets, err := h.Store.ListAssets(c.Request.Context())
	if err != nil {
		h.Log.WithError(err).Error("获取资产失败")
		util.Fail(c, http.StatusInternalServerError, "获取资产失败")
		return
	}
	c.JSON(http.StatusOK, assets)
}

// CreateAsset 添加资产并写入一条 add 历史记录
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req assetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "参数错误")
		return
	}
	if err := util.ValidateName(req.Name); err != nil {
		util.Fail(c, http.StatusBadRequest, "请输入有效名称")
		return
	}
	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Fail(c, http.StatusBadRequest, "请输入有效金额")
		return
	}

	asset := models.Asset{
		Name:        req.Name,
		Amount:      req.Amount,
		TagID:       req.TagID,
		Description: req.Description,
	}
	if req.CreateTime != nil {
		asset.CreateTime = *req.CreateTime
	}
	if req.UpdateTime != nil {
		asset.UpdateTime = *req.UpdateTime
	}

	if err := h.Store.CreateAsset(c.Request.Context(), &asset); err != nil {
		h.Log.WithError(err).Error("添加资产失败")
		util.Fail(c, http.StatusInternalServerError, "添加资产失败")
		return
	}
	c.JSON(http.StatusOK, asset)
}

// UpdateAsset 更新资产；金额变化时写入一条 update 历史记录
func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Fail(c, http.StatusBadRequest, "ID 不合法")
		return
	}

	var req assetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "参数错误")
		return
	}
	if err := util.ValidateName(req.Name); err != nil {
		util.Fail(c, http.StatusBadRequest, "请输入有效名称")
		return
	}
	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Fail(c, http.StatusBadRequest, "请输入有效金额")
		return
	}

	asset := models.Asset{
		ID:          uint(id),
		Name:        req.Name,
		Amount:      req.Amount,
		TagID:       req.TagID,
		Description: req.Description,
	}

	if err := h.Store.SaveAsset(c.Request.Context(), &asset); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Fail(c, http.StatusNotFound, "资产不存在")
			return
		}
		h.Log.WithError(err).Error("更新资产失败")
		util.Fail(c, http.StatusInternalServerError, "更新资产失败")
		return
	}
	c.JSON(http.StatusOK, asset)
}

// DeleteAsset 删除资产并写入一条 delete 历史记录，找不到返回 404
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Fail(c, http.StatusBadRequest, "ID 不合法")
		return
	}

	if err := h.Store.RemoveAsset(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Fail(c, http.StatusNotFound, "资产不存在")
			return
		}
		h.Log.WithError(err).Error("删除资产失败")
		util.Fail(c, http.StatusInternalServerError, "删除资产失败")
		return
	}
	util.Message(c, http.StatusOK, "删除成功")
}

// ListAssetsByTag 按标签精确筛选资产
func (h *AssetHandler) ListAssetsByTag(c *gin.Context) {
	tagID, err := strconv.Atoi(c.Param("tagId"))
	if err != nil || tagID <= 0 {
		util.Fail(c, http.StatusBadRequest, "标签 ID 不合法")
		return
	}

	assets, err := h.Store.AssetsByTag(c.Request.Context(), uint(tagID))
	if err != nil {
		h.Log.WithError(err).Error("按标签获取资产失败")
		util.Fail(c, http.StatusInternalServerError, "获取资产失败")
		return
	}
	c.JSON(http.StatusOK, assets)
}

package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/a810439322/moneyup/internal/models"
	"github.com/a810439322/moneyup/internal/store"
	"github.com/a810439322/moneyup/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// TagHandler 负责标签相关接口。纯 CRUD：不写历史，删除也不级联
type TagHandler struct {
	Store *store.SQLStore
	Log   *logrus.Logger
}

func NewTagHandler(s *store.SQLStore, log *logrus.Logger) *TagHandler {
	return &TagHandler{Store: s, Log: log}
}

type tagReq struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color" binding:"required"`
}

// ListTags 返回所有标签，按 id 升序
func (h *TagHandler) ListTags(c *gin.Context) {
	tags, err := h.Store.ListTags(c.Request.Context())
	if err != nil {
		h.Log.WithError(err).Error("获取标签失败")
		util.Fail(c, http.StatusInternalServerError, "获取标签失败")
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *TagHandler) CreateTag(c *gin.Context) {
	var req tagReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "参数错误")
		return
	}
	if err := util.ValidateName(req.Name); err != nil {
		util.Fail(c, http.StatusBadRequest, "请输入有效名称")
		return
	}
	if err := util.ValidateColor(req.Color); err != nil {
		util.Fail(c, http.StatusBadRequest, "颜色格式错误")
		return
	}

	tag := models.Tag{Name: req.Name, Color: req.Color}
	if err := h.Store.CreateTag(c.Request.Context(), &tag); err != nil {
		// 标签名唯一，重名会落到这里
		h.Log.WithError(err).Error("添加标签失败")
		util.Fail(c, http.StatusInternalServerError, "添加标签失败")
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (h *TagHandler) UpdateTag(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Fail(c, http.StatusBadRequest, "ID 不合法")
		return
	}

	var req tagReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "参数错误")
		return
	}
	if err := util.ValidateName(req.Name); err != nil {
		util.Fail(c, http.StatusBadRequest, "请输入有效名称")
		return
	}
	if err := util.ValidateColor(req.Color); err != nil {
		util.Fail(c, http.StatusBadRequest, "颜色格式错误")
		return
	}

	tag := models.Tag{ID: uint(id), Name: req.Name, Color: req.Color}
	if err := h.Store.SaveTag(c.Request.Context(), &tag); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Fail(c, http.StatusNotFound, "标签不存在")
			return
		}
		h.Log.WithError(err).Error("更新标签失败")
		util.Fail(c, http.StatusInternalServerError, "更新标签失败")
		return
	}
	c.JSON(http.StatusOK, tag)
}

// DeleteTag 删除标签。引用它的资产保留原 tagId，悬空引用是允许的
func (h *TagHandler) DeleteTag(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Fail(c, http.StatusBadRequest, "ID 不合法")
		return
	}

	if err := h.Store.RemoveTag(c.Request.Context(), uint(id)); err != nil {
		h.Log.WithError(err).Error("删除标签失败")
		util.Fail(c, http.StatusInternalServerError, "删除标签失败")
		return
	}
	util.Message(c, http.StatusOK, "删除成功")
}

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/a810439322/moneyup/internal/models"

	"github.com/sirupsen/logrus"
)

// APIStore is the remote backend: every operation delegates to the REST
// service and degrades to the same empty/false defaults as the embedded
// store when the service is unreachable.
type APIStore struct {
	baseURL string
	client  *http.Client
	log     *logrus.Logger
}

func NewAPIStore(baseURL string, timeout time.Duration, log *logrus.Logger) *APIStore {
	return &APIStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Init checks the service health endpoint once. Unreachable backends are
// surfaced here; afterwards individual calls only degrade.
func (s *APIStore) Init(ctx context.Context) error {
	var health struct {
		Status string `json:"status"`
	}
	if err := s.request(ctx, http.MethodGet, "/health", nil, &health); err != nil {
		return fmt.Errorf("后端服务不可用: %w", err)
	}
	return nil
}

// request 发送一次 JSON 请求，非 2xx 时解析 {"error": ...} 作为错误信息
func (s *APIStore) request(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (s *APIStore) GetAssets(ctx context.Context) []models.Asset {
	var assets []models.Asset
	if err := s.request(ctx, http.MethodGet, "/assets", nil, &assets); err != nil {
		s.log.WithError(err).Error("获取资产失败")
		return []models.Asset{}
	}
	return assets
}

func (s *APIStore) AddAsset(ctx context.Context, asset *models.Asset) bool {
	if err := s.request(ctx, http.MethodPost, "/assets", asset, asset); err != nil {
		s.log.WithError(err).Error("添加资产失败")
		return false
	}
	return true
}

func (s *APIStore) UpdateAsset(ctx context.Context, asset *models.Asset) bool {
	path := fmt.Sprintf("/assets/%d", asset.ID)
	if err := s.request(ctx, http.MethodPut, path, asset, asset); err != nil {
		s.log.WithError(err).Error("更新资产失败")
		return false
	}
	return true
}

func (s *APIStore) DeleteAsset(ctx context.Context, id uint) bool {
	path := fmt.Sprintf("/assets/%d", id)
	if err := s.request(ctx, http.MethodDelete, path, nil, nil); err != nil {
		s.log.WithError(err).Error("删除资产失败")
		return false
	}
	return true
}

func (s *APIStore) GetTags(ctx context.Context) []models.Tag {
	var tags []models.Tag
	if err := s.request(ctx, http.MethodGet, "/tags", nil, &tags); err != nil {
		s.log.WithError(err).Error("获取标签失败")
		return []models.Tag{}
	}
	return tags
}

func (s *APIStore) AddTag(ctx context.Context, tag *models.Tag) bool {
	if err := s.request(ctx, http.MethodPost, "/tags", tag, tag); err != nil {
		s.log.WithError(err).Error("添加标签失败")
		return false
	}
	return true
}

func (s *APIStore) UpdateTag(ctx context.Context, tag *models.Tag) bool {
	path := fmt.Sprintf("/tags/%d", tag.ID)
	if err := s.request(ctx, http.MethodPut, path, tag, tag); err != nil {
		s.log.WithError(err).Error("更新标签失败")
		return false
	}
	return true
}

func (s *APIStore) DeleteTag(ctx context.Context, id uint) bool {
	path := fmt.Sprintf("/tags/%d", id)
	if err := s.request(ctx, http.MethodDelete, path, nil, nil); err != nil {
		s.log.WithError(err).Error("删除标签失败")
		return false
	}
	return true
}

func (s *APIStore) GetHistory(ctx context.Context) []models.History {
	var history []models.History
	if err := s.request(ctx, http.MethodGet, "/history", nil, &history); err != nil {
		s.log.WithError(err).Error("获取历史记录失败")
		return []models.History{}
	}
	return history
}

func (s *APIStore) GetTotalAssets(ctx context.Context) float64 {
	var stats struct {
		TotalAssets float64 `json:"totalAssets"`
	}
	if err := s.request(ctx, http.MethodGet, "/statistics", nil, &stats); err != nil {
		s.log.WithError(err).Error("获取总资产失败")
		return 0
	}
	return stats.TotalAssets
}

func (s *APIStore) GetAssetsByTag(ctx context.Context, tagID uint) []models.Asset {
	var assets []models.Asset
	path := fmt.Sprintf("/assets/by-tag/%d", tagID)
	if err := s.request(ctx, http.MethodGet, path, nil, &assets); err != nil {
		s.log.WithError(err).Error("按标签获取资产失败")
		return []models.Asset{}
	}
	return assets
}

func (s *APIStore) ClearAllData(ctx context.Context) bool {
	if err := s.request(ctx, http.MethodDelete, "/clear", nil, nil); err != nil {
		s.log.WithError(err).Error("清空数据失败")
		return false
	}
	return true
}

// ExportData 远程变体不提供交换文档，备份走服务端的 /backups 接口
func (s *APIStore) ExportData(ctx context.Context) (*models.ExportDocument, error) {
	return nil, ErrNotSupported
}

func (s *APIStore) ImportData(ctx context.Context, doc *models.ExportDocument) error {
	return ErrNotSupported
}

var _ Store = (*APIStore)(nil)

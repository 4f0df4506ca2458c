package store

import (
	"context"
	"errors"

	"github.com/a810439322/moneyup/internal/models"
)

// ErrNotFound 表示按 id 查不到对应记录
var ErrNotFound = errors.New("record not found")

// ErrNotSupported 远程后端不支持的操作（导入/导出走服务端备份接口）
var ErrNotSupported = errors.New("operation not supported by this backend")

// Store is the backend-neutral data access contract. The UI layer and the CLI
// only ever see this interface; whether it talks to the embedded SQLite file
// or to the remote API is decided once from config, never per call.
//
// Failure policy follows the single-user design: reads degrade to an empty
// collection, writes to false, and every failure is logged where it happened.
// Only import/export propagate errors, because a malformed document is the
// caller's problem to report.
type Store interface {
	// GetAssets returns all assets ordered by update time, newest first.
	GetAssets(ctx context.Context) []models.Asset
	// AddAsset inserts the asset, assigning id and (when absent) timestamps,
	// and appends an "add" history record.
	AddAsset(ctx context.Context, asset *models.Asset) bool
	// UpdateAsset rewrites the asset by id, refreshing its update time. An
	// "update" history record is appended only when the amount changed.
	UpdateAsset(ctx context.Context, asset *models.Asset) bool
	// DeleteAsset removes the asset by id and appends a "delete" history
	// record carrying the removed amount.
	DeleteAsset(ctx context.Context, id uint) bool

	GetTags(ctx context.Context) []models.Tag
	AddTag(ctx context.Context, tag *models.Tag) bool
	UpdateTag(ctx context.Context, tag *models.Tag) bool
	DeleteTag(ctx context.Context, id uint) bool

	// GetHistory returns the change log ordered by time, newest first.
	GetHistory(ctx context.Context) []models.History

	// GetTotalAssets returns the sum of all asset amounts, 0 when empty.
	GetTotalAssets(ctx context.Context) float64
	// GetAssetsByTag returns the assets whose tagId matches exactly.
	GetAssetsByTag(ctx context.Context, tagID uint) []models.Asset

	// ClearAllData wipes assets, tags and history, resets the id counters
	// and reseeds the default tag set.
	ClearAllData(ctx context.Context) bool

	// ExportData serializes the three collections plus an export timestamp.
	ExportData(ctx context.Context) (*models.ExportDocument, error)
	// ImportData clears all data and replays the document verbatim: tags
	// first, then assets with their original timestamps, then history
	// records unchanged. No history entries are generated by the import.
	ImportData(ctx context.Context, doc *models.ExportDocument) error
}

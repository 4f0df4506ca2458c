package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/a810439322/moneyup/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SQLStore is the embedded backend: assets, tags and history in a SQLite
// file via GORM. It backs the REST service and doubles as the standalone
// local store.
//
// Mutations are read-modify-write sequences, not atomic across the asset and
// history tables. Two concurrent updates to the same asset can interleave so
// that the asset reflects the last write while the history entry reflects
// whichever read happened first. Accepted for the single-user use case.
type SQLStore struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewSQLStore(db *gorm.DB, log *logrus.Logger) *SQLStore {
	return &SQLStore{db: db, log: log}
}

// DB returns the underlying GORM handle.
func (s *SQLStore) DB() *gorm.DB {
	return s.db
}

// ---------- 资产 ----------

// ListAssets 按更新时间倒序返回所有资产
func (s *SQLStore) ListAssets(ctx context.Context) ([]models.Asset, error) {
	var assets []models.Asset
	if err := s.db.WithContext(ctx).
		Order("update_time DESC, id DESC").
		Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return assets, nil
}

func (s *SQLStore) FindAsset(ctx context.Context, id uint) (*models.Asset, error) {
	var asset models.Asset
	if err := s.db.WithContext(ctx).First(&asset, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find asset %d: %w", id, err)
	}
	return &asset, nil
}

// CreateAsset inserts the asset and appends an "add" history record. 时间戳
// 只在调用方没给的情况下取当前时间，导入的数据保留原始时间。
func (s *SQLStore) CreateAsset(ctx context.Context, asset *models.Asset) error {
	now := time.Now()
	if asset.CreateTime.IsZero() {
		asset.CreateTime = now
	}
	if asset.UpdateTime.IsZero() {
		asset.UpdateTime = now
	}

	if err := s.db.WithContext(ctx).Create(asset).Error; err != nil {
		return fmt.Errorf("create asset: %w", err)
	}

	amount := asset.Amount
	record := models.History{
		Type:        models.HistoryAdd,
		AssetID:     asset.ID,
		Amount:      &amount,
		Description: "添加" + asset.Name,
		Time:        now,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("record add history: %w", err)
	}
	return nil
}

// SaveAsset rewrites an existing asset. If and only if the amount changed
// against the stored record, one "update" history entry is appended.
func (s *SQLStore) SaveAsset(ctx context.Context, asset *models.Asset) error {
	old, err := s.FindAsset(ctx, asset.ID)
	if err != nil {
		return err
	}

	asset.CreateTime = old.CreateTime
	asset.UpdateTime = time.Now()

	if err := s.db.WithContext(ctx).Save(asset).Error; err != nil {
		return fmt.Errorf("save asset %d: %w", asset.ID, err)
	}

	if old.Amount != asset.Amount {
		oldAmount := old.Amount
		newAmount := asset.Amount
		record := models.History{
			Type:        models.HistoryUpdate,
			AssetID:     asset.ID,
			OldAmount:   &oldAmount,
			NewAmount:   &newAmount,
			Description: "更新" + asset.Name,
			Time:        asset.UpdateTime,
		}
		if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
			return fmt.Errorf("record update history: %w", err)
		}
	}
	return nil
}

// RemoveAsset deletes the asset by id and appends one "delete" history
// record carrying the pre-deletion amount.
func (s *SQLStore) RemoveAsset(ctx context.Context, id uint) error {
	old, err := s.FindAsset(ctx, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&models.Asset{}, id).Error; err != nil {
		return fmt.Errorf("delete asset %d: %w", id, err)
	}

	amount := old.Amount
	record := models.History{
		Type:        models.HistoryDelete,
		AssetID:     id,
		Amount:      &amount,
		Description: "删除" + old.Name,
		Time:        time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("record delete history: %w", err)
	}
	return nil
}

func (s *SQLStore) AssetsByTag(ctx context.Context, tagID uint) ([]models.Asset, error) {
	var assets []models.Asset
	if err := s.db.WithContext(ctx).
		Where("tag_id = ?", tagID).
		Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("assets by tag %d: %w", tagID, err)
	}
	return assets, nil
}

func (s *SQLStore) TotalAssets(ctx context.Context) (float64, error) {
	var total float64
	if err := s.db.WithContext(ctx).
		Model(&models.Asset{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("total assets: %w", err)
	}
	return total, nil
}

// ---------- 标签 ----------

// ListTags 按 id 升序返回所有标签
func (s *SQLStore) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

func (s *SQLStore) CreateTag(ctx context.Context, tag *models.Tag) error {
	if err := s.db.WithContext(ctx).Create(tag).Error; err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

// SaveTag rewrites an existing tag. GORM 的 Save 对不存在的 id 会退化成插入，
// 这里用显式 UPDATE，更新不到任何行就按不存在处理。
func (s *SQLStore) SaveTag(ctx context.Context, tag *models.Tag) error {
	res := s.db.WithContext(ctx).Model(&models.Tag{}).
		Where("id = ?", tag.ID).
		Updates(map[string]interface{}{"name": tag.Name, "color": tag.Color})
	if res.Error != nil {
		return fmt.Errorf("save tag %d: %w", tag.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveTag deletes the tag only. Assets referencing it keep their tagId;
// dangling references are tolerated.
func (s *SQLStore) RemoveTag(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&models.Tag{}, id).Error; err != nil {
		return fmt.Errorf("delete tag %d: %w", id, err)
	}
	return nil
}

// ---------- 历史记录 ----------

// ListHistory 按时间倒序返回变动记录
func (s *SQLStore) ListHistory(ctx context.Context) ([]models.History, error) {
	var history []models.History
	if err := s.db.WithContext(ctx).
		Order("time DESC, id DESC").
		Find(&history).Error; err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return history, nil
}

// ---------- 清空 / 导入导出 ----------

// wipe removes all rows from the three tables and resets their id counters.
// Seeding is the caller's business: Clear reseeds, Import replays a document.
func wipe(tx *gorm.DB) error {
	for _, table := range []string{"assets", "tags", "history"} {
		if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	// sqlite_sequence only exists once something was inserted
	tx.Exec(`DELETE FROM sqlite_sequence WHERE name IN ('assets', 'tags', 'history')`)
	return nil
}

// Clear wipes everything and reinserts the default tag set.
func (s *SQLStore) Clear(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := wipe(tx); err != nil {
			return err
		}
		tags := models.DefaultTags()
		if err := tx.Create(&tags).Error; err != nil {
			return fmt.Errorf("reseed default tags: %w", err)
		}
		return nil
	})
}

// Export collects the three collections into the interchange document.
func (s *SQLStore) Export(ctx context.Context) (*models.ExportDocument, error) {
	assets, err := s.ListAssets(ctx)
	if err != nil {
		return nil, err
	}
	tags, err := s.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	history, err := s.ListHistory(ctx)
	if err != nil {
		return nil, err
	}
	return &models.ExportDocument{
		Assets:     assets,
		Tags:       tags,
		History:    history,
		ExportTime: time.Now(),
	}, nil
}

// Import clears all data and replays the document: tags, then assets with
// their original ids and timestamps, then history records verbatim. The
// import itself never generates history entries. There is no rollback to the
// pre-import state when the document is rejected mid-way; the transaction
// only protects against partially written rows.
func (s *SQLStore) Import(ctx context.Context, doc *models.ExportDocument) error {
	if doc == nil {
		return errors.New("import: empty document")
	}
	for i := range doc.Assets {
		if doc.Assets[i].CreateTime.IsZero() || doc.Assets[i].UpdateTime.IsZero() {
			return fmt.Errorf("import: asset %q has no timestamps", doc.Assets[i].Name)
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := wipe(tx); err != nil {
			return err
		}
		if len(doc.Tags) > 0 {
			if err := tx.Create(&doc.Tags).Error; err != nil {
				return fmt.Errorf("import tags: %w", err)
			}
		}
		if len(doc.Assets) > 0 {
			if err := tx.Create(&doc.Assets).Error; err != nil {
				return fmt.Errorf("import assets: %w", err)
			}
		}
		if len(doc.History) > 0 {
			if err := tx.Create(&doc.History).Error; err != nil {
				return fmt.Errorf("import history: %w", err)
			}
		}
		return nil
	})
}

// ---------- Store 接口（降级语义） ----------

func (s *SQLStore) GetAssets(ctx context.Context) []models.Asset {
	assets, err := s.ListAssets(ctx)
	if err != nil {
		s.log.WithError(err).Error("获取资产失败")
		return []models.Asset{}
	}
	return assets
}

func (s *SQLStore) AddAsset(ctx context.Context, asset *models.Asset) bool {
	if err := s.CreateAsset(ctx, asset); err != nil {
		s.log.WithError(err).Error("添加资产失败")
		return false
	}
	return true
}

func (s *SQLStore) UpdateAsset(ctx context.Context, asset *models.Asset) bool {
	if err := s.SaveAsset(ctx, asset); err != nil {
		s.log.WithError(err).Error("更新资产失败")
		return false
	}
	return true
}

func (s *SQLStore) DeleteAsset(ctx context.Context, id uint) bool {
	if err := s.RemoveAsset(ctx, id); err != nil {
		// 本地变体容忍删除不存在的 id：无记录、无历史、不报错
		if errors.Is(err, ErrNotFound) {
			return true
		}
		s.log.WithError(err).Error("删除资产失败")
		return false
	}
	return true
}

func (s *SQLStore) GetTags(ctx context.Context) []models.Tag {
	tags, err := s.ListTags(ctx)
	if err != nil {
		s.log.WithError(err).Error("获取标签失败")
		return []models.Tag{}
	}
	return tags
}

func (s *SQLStore) AddTag(ctx context.Context, tag *models.Tag) bool {
	if err := s.CreateTag(ctx, tag); err != nil {
		s.log.WithError(err).Error("添加标签失败")
		return false
	}
	return true
}

func (s *SQLStore) UpdateTag(ctx context.Context, tag *models.Tag) bool {
	if err := s.SaveTag(ctx, tag); err != nil {
		s.log.WithError(err).Error("更新标签失败")
		return false
	}
	return true
}

func (s *SQLStore) DeleteTag(ctx context.Context, id uint) bool {
	if err := s.RemoveTag(ctx, id); err != nil {
		s.log.WithError(err).Error("删除标签失败")
		return false
	}
	return true
}

func (s *SQLStore) GetHistory(ctx context.Context) []models.History {
	history, err := s.ListHistory(ctx)
	if err != nil {
		s.log.WithError(err).Error("获取历史记录失败")
		return []models.History{}
	}
	return history
}

func (s *SQLStore) GetTotalAssets(ctx context.Context) float64 {
	total, err := s.TotalAssets(ctx)
	if err != nil {
		s.log.WithError(err).Error("获取总资产失败")
		return 0
	}
	return total
}

func (s *SQLStore) GetAssetsByTag(ctx context.Context, tagID uint) []models.Asset {
	assets, err := s.AssetsByTag(ctx, tagID)
	if err != nil {
		s.log.WithError(err).Error("按标签获取资产失败")
		return []models.Asset{}
	}
	return assets
}

func (s *SQLStore) ClearAllData(ctx context.Context) bool {
	if err := s.Clear(ctx); err != nil {
		s.log.WithError(err).Error("清空数据失败")
		return false
	}
	return true
}

func (s *SQLStore) ExportData(ctx context.Context) (*models.ExportDocument, error) {
	return s.Export(ctx)
}

func (s *SQLStore) ImportData(ctx context.Context, doc *models.ExportDocument) error {
	return s.Import(ctx, doc)
}

var _ Store = (*SQLStore)(nil)

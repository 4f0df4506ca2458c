package database

import (
	"fmt"

	"github.com/a810439322/moneyup/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Asset{},
		&models.Tag{},
		&models.History{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// SeedDefaultTags 在标签表为空时写入六个预置分类，重复调用无副作用
func SeedDefaultTags(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Tag{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count tags: %w", err)
	}
	if count > 0 {
		return nil
	}
	tags := models.DefaultTags()
	if err := db.Create(&tags).Error; err != nil {
		return fmt.Errorf("seed default tags: %w", err)
	}
	return nil
}

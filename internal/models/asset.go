package models

import "time"

// Asset 表示一项资产（现金、存款、房产等）
// 金额直接存 REAL，和前端 JSON number 保持一致
type Asset struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:64;not null" json:"name"`
	Amount      float64   `gorm:"not null" json:"amount"`
	TagID       *uint     `gorm:"index" json:"tagId"`
	Description *string   `gorm:"size:255" json:"description"`
	CreateTime  time.Time `gorm:"not null" json:"createTime"`
	UpdateTime  time.Time `gorm:"index;not null" json:"updateTime"`
}

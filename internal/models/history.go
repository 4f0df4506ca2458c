package models

import "time"

// History record types.
const (
	HistoryAdd    = "add"
	HistoryUpdate = "update"
	HistoryDelete = "delete"
)

// History 表示一条资产变动记录，只追加不修改
// add/delete 只填 Amount，update 填 OldAmount/NewAmount
type History struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Type        string    `gorm:"size:16;index;not null" json:"type"`
	AssetID     uint      `gorm:"index" json:"assetId"`
	Amount      *float64  `json:"amount"`
	OldAmount   *float64  `json:"oldAmount"`
	NewAmount   *float64  `json:"newAmount"`
	Description string    `gorm:"size:255" json:"description"`
	Time        time.Time `gorm:"index;not null" json:"time"`
}

// TableName keeps the table singular, matching the assets/tags/history layout.
func (History) TableName() string {
	return "history"
}

package models

// Tag represents an asset category with a display color.
type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Color string `gorm:"size:16;not null" json:"color"`
}

// DefaultTags 六个预置分类，清空数据后会重新写入
func DefaultTags() []Tag {
	return []Tag{
		{Name: "现金", Color: "#34C759"},
		{Name: "银行存款", Color: "#007AFF"},
		{Name: "股票基金", Color: "#FF9500"},
		{Name: "房产", Color: "#AF52DE"},
		{Name: "车辆", Color: "#FF3B30"},
		{Name: "其他", Color: "#8E8E93"},
	}
}

package models

import "time"

// ExportDocument 备份/恢复用的交换格式，三个集合加导出时间
type ExportDocument struct {
	Assets     []Asset   `json:"assets"`
	Tags       []Tag     `json:"tags"`
	History    []History `json:"history"`
	ExportTime time.Time `json:"exportTime"`
}

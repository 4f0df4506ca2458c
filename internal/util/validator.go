package util

import (
	"fmt"
	"regexp"
	"strings"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidateAmount 验证金额（不能为负数且不超过上限）
func ValidateAmount(amount float64) error {
	if amount < 0 {
		return fmt.Errorf("amount must not be negative, got %f", amount)
	}
	if amount >= 10000000000 { // 限制最大金额为100亿
		return fmt.Errorf("amount too large, got %f", amount)
	}
	return nil
}

// ValidateName 验证名称（不能为空且长度合理）
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is empty")
	}
	if len([]rune(name)) > 64 {
		return fmt.Errorf("name too long, max 64 characters")
	}
	return nil
}

// ValidateColor 验证颜色（必须为 #RRGGBB）
func ValidateColor(color string) error {
	if color == "" {
		return fmt.Errorf("color is empty")
	}
	if !colorPattern.MatchString(color) {
		return fmt.Errorf("invalid color format: %s", color)
	}
	return nil
}

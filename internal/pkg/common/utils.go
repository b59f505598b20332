package common

import (
	"github.com/google/uuid"
)

// GenerateUUID 生成隨機 UUID（request id 用）
func GenerateUUID() string {
	return uuid.New().String()
}

// NewEntryID 生成依建立時間遞增的 ID（UUIDv7）
func NewEntryID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// CloneStrings 複製字串切片，nil 轉為空切片
func CloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

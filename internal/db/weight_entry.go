package db

import (
	"time"

	"gorm.io/gorm"
)

// WeightEntry 定义了体重记录，Value 单位千克
type WeightEntry struct {
	gorm.Model
	UserID uint      `gorm:"index:idx_weight_entries_user_date;not null" json:"userId"`
	Value  float64   `gorm:"not null" json:"value"`
	Date   time.Time `gorm:"index:idx_weight_entries_user_date;not null" json:"date"`
	Note   string    `json:"note"`
}

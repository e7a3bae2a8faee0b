package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/MohamadAmiin/diet-app-just-project/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrWeightNotFound 在指定体重记录不存在时返回
	ErrWeightNotFound = errors.New("weight entry not found")
	// ErrInvalidWeight 在体重值非正时返回
	ErrInvalidWeight = errors.New("weight value must be positive")
)

// WeightService 负责体重记录的增删改查。
// 新记录会把档案里的体重同步为最新值。
type WeightService struct {
	db       *gorm.DB
	profiles *ProfileService
}

// WeightInput 定义记录体重时的输入对象
type WeightInput struct {
	Value float64
	Date  time.Time
	Note  string
}

// WeightUpdate 定义更新记录时可修改的字段，nil 表示不变
type WeightUpdate struct {
	Value *float64
	Date  *time.Time
	Note  *string
}

// NewWeightService 构造 WeightService
func NewWeightService(gdb *gorm.DB, profiles *ProfileService) *WeightService {
	return &WeightService{db: gdb, profiles: profiles}
}

// Log 记录一次体重
func (s *WeightService) Log(userID uint, input WeightInput) (*db.WeightEntry, error) {
	if input.Value <= 0 {
		return nil, ErrInvalidWeight
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	entry := db.WeightEntry{
		UserID: userID,
		Value:  input.Value,
		Date:   date,
		Note:   sanitizeNote(input.Note),
	}

	if err := s.db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("create weight entry: %w", err)
	}

	if err := s.profiles.SetWeight(userID, input.Value); err != nil {
		return nil, err
	}

	return &entry, nil
}

// History 返回体重历史，按日期降序，limit 默认 30
func (s *WeightService) History(userID uint, limit int) ([]db.WeightEntry, error) {
	if limit <= 0 {
		limit = 30
	}

	var entries []db.WeightEntry
	if err := s.db.Where("user_id = ?", userID).
		Order("date DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list weight entries: %w", err)
	}
	return entries, nil
}

// Range 返回日期区间内的体重记录，按日期升序
func (s *WeightService) Range(userID uint, startDate, endDate time.Time) ([]db.WeightEntry, error) {
	start := normalizeToDate(startDate)
	_, end := dayBounds(endDate)

	var entries []db.WeightEntry
	if err := s.db.Where("user_id = ?", userID).
		Where("date BETWEEN ? AND ?", start, end).
		Order("date ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list weight entries: %w", err)
	}
	return entries, nil
}

// Latest 返回最近一条体重记录
func (s *WeightService) Latest(userID uint) (*db.WeightEntry, error) {
	var entry db.WeightEntry
	if err := s.db.Where("user_id = ?", userID).
		Order("date DESC").
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWeightNotFound
		}
		return nil, fmt.Errorf("load latest weight: %w", err)
	}
	return &entry, nil
}

// Update 更新体重记录
func (s *WeightService) Update(id, userID uint, isAdmin bool, update WeightUpdate) (*db.WeightEntry, error) {
	var entry db.WeightEntry
	if err := s.db.First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWeightNotFound
		}
		return nil, fmt.Errorf("find weight entry: %w", err)
	}

	if entry.UserID != userID && !isAdmin {
		return nil, ErrPermissionDenied
	}

	if update.Value != nil {
		if *update.Value <= 0 {
			return nil, ErrInvalidWeight
		}
		entry.Value = *update.Value
	}
	if update.Date != nil {
		entry.Date = *update.Date
	}
	if update.Note != nil {
		entry.Note = sanitizeNote(*update.Note)
	}

	if err := s.db.Save(&entry).Error; err != nil {
		return nil, fmt.Errorf("update weight entry: %w", err)
	}
	return &entry, nil
}

// Delete 删除体重记录
func (s *WeightService) Delete(id, userID uint, isAdmin bool) error {
	var entry db.WeightEntry
	if err := s.db.First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWeightNotFound
		}
		return fmt.Errorf("find weight entry: %w", err)
	}

	if entry.UserID != userID && !isAdmin {
		return ErrPermissionDenied
	}

	if err := s.db.Delete(&db.WeightEntry{}, id).Error; err != nil {
		return fmt.Errorf("delete weight entry: %w", err)
	}
	return nil
}

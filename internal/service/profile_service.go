package service

import (
	"errors"
	"fmt"

	"github.com/MohamadAmiin/diet-app-just-project/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrProfileNotFound 在档案不存在时返回
	ErrProfileNotFound = errors.New("profile not found")
	// ErrProfileInvalid 在档案字段超出合理范围时返回
	ErrProfileInvalid = errors.New("invalid profile")
)

// ProfileService 负责用户档案的读写
type ProfileService struct {
	db *gorm.DB
}

// ProfileUpdate 定义档案的部分更新，nil 表示不变
type ProfileUpdate struct {
	Age                *int
	Height             *float64
	Weight             *float64
	Goal               *string
	DailyCalorieTarget *int
}

// NewProfileService 构造 ProfileService
func NewProfileService(gdb *gorm.DB) *ProfileService {
	return &ProfileService{db: gdb}
}

// Get 返回指定用户的档案
func (s *ProfileService) Get(userID uint) (*db.Profile, error) {
	var profile db.Profile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &profile, nil
}

// Update 对档案做部分更新，各字段独立校验
func (s *ProfileService) Update(userID uint, update ProfileUpdate) (*db.Profile, error) {
	profile, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	if update.Age != nil {
		if *update.Age < 1 || *update.Age > 150 {
			return nil, fmt.Errorf("%w: age out of range", ErrProfileInvalid)
		}
		profile.Age = *update.Age
	}
	if update.Height != nil {
		if *update.Height < 50 || *update.Height > 300 {
			return nil, fmt.Errorf("%w: height out of range", ErrProfileInvalid)
		}
		profile.Height = *update.Height
	}
	if update.Weight != nil {
		if *update.Weight < 20 || *update.Weight > 500 {
			return nil, fmt.Errorf("%w: weight out of range", ErrProfileInvalid)
		}
		profile.Weight = *update.Weight
	}
	if update.Goal != nil {
		if !db.ValidGoal(*update.Goal) {
			return nil, fmt.Errorf("%w: unsupported goal %s", ErrProfileInvalid, *update.Goal)
		}
		profile.Goal = *update.Goal
	}
	if update.DailyCalorieTarget != nil {
		if *update.DailyCalorieTarget < 0 {
			return nil, fmt.Errorf("%w: calorie target cannot be negative", ErrProfileInvalid)
		}
		profile.DailyCalorieTarget = *update.DailyCalorieTarget
	}

	if err := s.db.Save(profile).Error; err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return profile, nil
}

// SetWeight 将档案体重同步为最新记录值，档案不存在时静默忽略
func (s *ProfileService) SetWeight(userID uint, value float64) error {
	err := s.db.Model(&db.Profile{}).
		Where("user_id = ?", userID).
		Update("weight", value).Error
	if err != nil {
		return fmt.Errorf("sync profile weight: %w", err)
	}
	return nil
}

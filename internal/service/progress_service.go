package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/MohamadAmiin/diet-app-just-project/internal/db"
	"gorm.io/gorm"
)

// 短期趋势取值
const (
	TrendNoData  = "no_data"
	TrendGaining = "gaining"
	TrendLosing  = "losing"
	TrendStable  = "stable"
)

// 目标进展状态取值
const (
	StatusOnTrack   = "on_track"
	StatusOffTrack  = "off_track"
	StatusStable    = "stable"
	StatusAttention = "attention"
	StatusNoProfile = "no_profile"
)

// 短期趋势窗口取最近 7 条记录（按条数而非日历天，沿用既有口径），
// 窗口内首尾差超过 ±0.5 公斤才视为趋势变化
const (
	trendWindowEntries = 7
	trendThresholdKg   = 0.5
)

// ProgressService 负责体重趋势、营养进展与目标进度的只读计算。
// 所有结果都在读取时现算，不持久化任何派生数据。
type ProgressService struct {
	db  *gorm.DB
	now func() time.Time
}

// WeightProgress 描述体重变化统计。
// 没有任何记录时 Trend 为 no_data，首末体重为 null。
type WeightProgress struct {
	CurrentWeight *float64 `json:"currentWeight"`
	StartWeight   *float64 `json:"startWeight"`
	TotalChange   float64  `json:"totalChange"`
	PercentChange float64  `json:"percentChange"`
	Trend         string   `json:"trend"`
	EntriesCount  int      `json:"entriesCount"`
}

// NutritionDay 是营养进展历史中的单日数据
type NutritionDay struct {
	Date     time.Time `json:"date"`
	Calories int       `json:"calories"`
	Protein  float64   `json:"protein"`
	Carbs    float64   `json:"carbs"`
	Fats     float64   `json:"fats"`
}

// NutritionProgress 汇总最近若干天的营养摄入
type NutritionProgress struct {
	DaysTracked     int            `json:"daysTracked"`
	AverageCalories int            `json:"averageCalories"`
	AverageProtein  float64        `json:"averageProtein"`
	AverageCarbs    float64        `json:"averageCarbs"`
	AverageFats     float64        `json:"averageFats"`
	History         []NutritionDay `json:"history"`
}

// GoalProgress 把体重趋势和档案目标合成进度结论
type GoalProgress struct {
	Goal           string          `json:"goal"`
	Status         string          `json:"status"`
	Message        string          `json:"message"`
	WeightProgress *WeightProgress `json:"weightProgress,omitempty"`
	CalorieTarget  int             `json:"calorieTarget,omitempty"`
}

// ProgressSummary 聚合全部进展数据
type ProgressSummary struct {
	Weight      *WeightProgress    `json:"weight"`
	Nutrition   *NutritionProgress `json:"nutrition"`
	Goal        *GoalProgress      `json:"goal"`
	GeneratedAt time.Time          `json:"generatedAt"`
}

// NewProgressService 构造 ProgressService，默认使用系统时钟
func NewProgressService(gdb *gorm.DB) *ProgressService {
	return &ProgressService{db: gdb, now: time.Now}
}

// WithClock 注入时间源，便于测试固定日期
func (s *ProgressService) WithClock(now func() time.Time) *ProgressService {
	if now != nil {
		s.now = now
	}
	return s
}

// WeightProgress 加载全部体重记录并分类短期趋势。
// 总变化与百分比基于最早和最新记录；短期趋势只看最近 7 条。
func (s *ProgressService) WeightProgress(userID uint) (*WeightProgress, error) {
	var entries []db.WeightEntry
	if err := s.db.Where("user_id = ?", userID).
		Order("date ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("load weight entries: %w", err)
	}

	if len(entries) == 0 {
		return &WeightProgress{Trend: TrendNoData}, nil
	}

	startWeight := entries[0].Value
	currentWeight := entries[len(entries)-1].Value
	totalChange := round1(currentWeight - startWeight)
	percentChange := round1(totalChange / startWeight * 100)

	recent := entries
	if len(recent) > trendWindowEntries {
		recent = recent[len(recent)-trendWindowEntries:]
	}

	trend := TrendStable
	if len(recent) >= 2 {
		recentChange := recent[len(recent)-1].Value - recent[0].Value
		switch {
		case recentChange > trendThresholdKg:
			trend = TrendGaining
		case recentChange < -trendThresholdKg:
			trend = TrendLosing
		}
	}

	return &WeightProgress{
		CurrentWeight: &currentWeight,
		StartWeight:   &startWeight,
		TotalChange:   totalChange,
		PercentChange: percentChange,
		Trend:         trend,
		EntriesCount:  len(entries),
	}, nil
}

// NutritionProgress 汇总最近 days 天（默认 7 天）的摄入情况。
// 平均值只在有总量记录的天数上计算。
func (s *ProgressService) NutritionProgress(userID uint, days int) (*NutritionProgress, error) {
	if days <= 0 {
		days = 7
	}

	end := s.now()
	start := end.AddDate(0, 0, -days)

	var totals []db.DailyTotal
	if err := s.db.Where("user_id = ?", userID).
		Where("date BETWEEN ? AND ?", start, end).
		Order("date ASC").
		Find(&totals).Error; err != nil {
		return nil, fmt.Errorf("load daily totals: %w", err)
	}

	progress := &NutritionProgress{History: make([]NutritionDay, 0, len(totals))}
	if len(totals) == 0 {
		return progress, nil
	}

	var calories, protein, carbs, fats float64
	for _, day := range totals {
		calories += float64(day.TotalCalories)
		protein += day.TotalProtein
		carbs += day.TotalCarbs
		fats += day.TotalFats

		progress.History = append(progress.History, NutritionDay{
			Date:     day.Date,
			Calories: day.TotalCalories,
			Protein:  day.TotalProtein,
			Carbs:    day.TotalCarbs,
			Fats:     day.TotalFats,
		})
	}

	n := float64(len(totals))
	progress.DaysTracked = len(totals)
	progress.AverageCalories = roundInt(calories / n)
	progress.AverageProtein = round1(protein / n)
	progress.AverageCarbs = round1(carbs / n)
	progress.AverageFats = round1(fats / n)

	return progress, nil
}

// GoalProgress 结合档案目标与体重趋势给出进度结论。
// 档案不存在时返回 no_profile，而不是报错。
func (s *ProgressService) GoalProgress(userID uint) (*GoalProgress, error) {
	weightProgress, err := s.WeightProgress(userID)
	if err != nil {
		return nil, err
	}

	var profile db.Profile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &GoalProgress{
				Status:  StatusNoProfile,
				Message: "请先完善个人档案，才能跟踪目标进度",
			}, nil
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}

	status, message := evaluateGoal(profile.Goal, weightProgress.Trend)

	return &GoalProgress{
		Goal:           profile.Goal,
		Status:         status,
		Message:        message,
		WeightProgress: weightProgress,
		CalorieTarget:  profile.DailyCalorieTarget,
	}, nil
}

// Summary 聚合体重、营养与目标三部分进展
func (s *ProgressService) Summary(userID uint) (*ProgressSummary, error) {
	weight, err := s.WeightProgress(userID)
	if err != nil {
		return nil, err
	}

	nutrition, err := s.NutritionProgress(userID, 7)
	if err != nil {
		return nil, err
	}

	goal, err := s.GoalProgress(userID)
	if err != nil {
		return nil, err
	}

	return &ProgressSummary{
		Weight:      weight,
		Nutrition:   nutrition,
		Goal:        goal,
		GeneratedAt: s.now(),
	}, nil
}

// evaluateGoal 是 (目标 × 趋势) 到 (状态, 提示语) 的固定映射。
// 未设置或未识别的目标返回兜底提示，不报错。
func evaluateGoal(goal, trend string) (string, string) {
	switch goal {
	case db.GoalLoseWeight:
		switch trend {
		case TrendLosing:
			return StatusOnTrack, "进展顺利！体重正在下降。"
		case TrendGaining:
			return StatusOffTrack, "体重在上升，建议检查一下饮食计划。"
		default:
			return StatusStable, "体重保持平稳，坚持执行计划。"
		}

	case db.GoalGainWeight, db.GoalBuildMuscle:
		switch trend {
		case TrendGaining:
			return StatusOnTrack, "进展顺利！体重正在增加。"
		case TrendLosing:
			return StatusOffTrack, "体重在下降，建议增加热量摄入。"
		default:
			return StatusStable, "体重保持平稳，可以考虑调整饮食计划。"
		}

	case db.GoalMaintainWeight:
		if trend == TrendStable {
			return StatusOnTrack, "很好！体重维持得很稳定。"
		}
		return StatusAttention, "体重在变化，留意一下热量摄入。"

	default:
		return StatusOnTrack, "在档案中设置一个目标即可开始跟踪进度。"
	}
}

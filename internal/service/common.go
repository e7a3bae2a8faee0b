package service

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// ErrPermissionDenied 在非本人且非管理员操作他人数据时返回
var ErrPermissionDenied = errors.New("permission denied")

// noteSanitizer 用于剥离备注等自由文本中的全部标记
var noteSanitizer = bluemonday.StrictPolicy()

// sanitizeNote 去掉备注中的 HTML 标记并裁剪空白
func sanitizeNote(raw string) string {
	return strings.TrimSpace(noteSanitizer.Sanitize(raw))
}

// roundInt 四舍五入到整数
func roundInt(v float64) int {
	return int(math.Round(v))
}

// round1 四舍五入到一位小数
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// normalizeToDate 将任意时间规整到当日零点
func normalizeToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// dayBounds 返回某天的起止边界，毫秒精度上双端闭区间
func dayBounds(t time.Time) (time.Time, time.Time) {
	start := normalizeToDate(t)
	end := start.Add(24*time.Hour - time.Millisecond)
	return start, end
}

// Package datetime 提供日期规范化、日期运算与计息天数惯例（day count）。
package datetime

import "time"

const layoutDate = "2006-01-02"

// Date 将任意时间规范化为 UTC 零点，作为定价中使用的日期。
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Normalize 截断到 UTC 零点；零值保持为零值（空日期）。
func Normalize(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsNull 判断日期是否未设置。
func IsNull(t time.Time) bool {
	return t.IsZero()
}

// FormatDate 将时间格式化为 "YYYY-MM-DD"。
func FormatDate(t time.Time) string {
	return t.Format(layoutDate)
}

// ParseDate 解析 "YYYY-MM-DD" 格式的日期字符串。
func ParseDate(s string) (time.Time, error) {
	return time.Parse(layoutDate, s)
}

// AddDays 日期加减天数。
func AddDays(t time.Time, n int) time.Time {
	return Normalize(t).AddDate(0, 0, n)
}

// AddMonths 日期加减月数，月末溢出时取当月最后一天。
func AddMonths(t time.Time, n int) time.Time {
	t = Normalize(t)
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	last := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

// AddYears 日期加减年数。
func AddYears(t time.Time, n int) time.Time {
	return AddMonths(t, 12*n)
}

package datetime

import "time"

// DayCounter 计息天数惯例。
type DayCounter string

const (
	Actual365Fixed DayCounter = "ACT/365F"
	Actual360      DayCounter = "ACT/360"
	Thirty360      DayCounter = "30/360"
)

// DaysBetween 返回两日期之间的自然日数（可为负）。
func DaysBetween(d1, d2 time.Time) float64 {
	return Normalize(d2).Sub(Normalize(d1)).Hours() / 24
}

// YearFraction 按惯例计算 d1 到 d2 的年化期限；d2 早于 d1 时为负。
// 未识别的惯例按 ACT/365F 处理。
func (dc DayCounter) YearFraction(d1, d2 time.Time) float64 {
	switch dc {
	case Actual360:
		return DaysBetween(d1, d2) / 360.0
	case Thirty360:
		// 30E/360：日数封顶为 30
		d1, d2 = Normalize(d1), Normalize(d2)
		day1 := min(d1.Day(), 30)
		day2 := min(d2.Day(), 30)
		y1, m1 := d1.Year(), int(d1.Month())
		y2, m2 := d2.Year(), int(d2.Month())
		return float64(360*(y2-y1)+30*(m2-m1)+(day2-day1)) / 360.0
	default:
		return DaysBetween(d1, d2) / 365.0
	}
}

// String 实现 fmt.Stringer。
func (dc DayCounter) String() string {
	if dc == "" {
		return string(Actual365Fixed)
	}
	return string(dc)
}

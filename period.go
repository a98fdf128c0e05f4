package kfeed

// Помошники по трансформации периодов свечей в разные форматы

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// единица измерения периода свечи
type Timespan string

const (
	SpanMinute Timespan = "minute"
	SpanHour   Timespan = "hour"
	SpanDay    Timespan = "day"
	SpanWeek   Timespan = "week"
	SpanMonth  Timespan = "month"
	SpanYear   Timespan = "year"
)

// период свечи в нативных терминах графика
type Period struct {
	Multiplier int      // положительный множитель
	Timespan   Timespan // единица измерения
	Text       string   // отображаемый текст, например "15m"
}

var timespanDurations = map[Timespan]time.Duration{
	SpanMinute: time.Minute,
	SpanHour:   time.Hour,
	SpanDay:    24 * time.Hour,
	SpanWeek:   7 * 24 * time.Hour,
	SpanMonth:  30 * 24 * time.Hour,
	SpanYear:   365 * 24 * time.Hour,
}

var timespanSuffixes = map[Timespan]string{
	SpanMinute: "m",
	SpanHour:   "h",
	SpanDay:    "d",
	SpanWeek:   "w",
	SpanMonth:  "M",
	SpanYear:   "y",
}

// Duration возвращает длительность периода. Для месяца и года значение
// приблизительное, используется только для планирования опроса.
// Неизвестная единица считается минутой.
func (p Period) Duration() time.Duration {
	d, ok := timespanDurations[p.Timespan]
	if !ok {
		l.Warn("неизвестная единица периода, считаю за минуту",
			zap.String("timespan", string(p.Timespan)))
		d = time.Minute
	}
	if p.Multiplier > 1 {
		d = time.Duration(p.Multiplier) * d
	}
	return d
}

func (p Period) String() string {
	if p.Text != "" {
		return p.Text
	}
	suffix, ok := timespanSuffixes[p.Timespan]
	if !ok {
		suffix = "m"
	}
	return fmt.Sprintf("%d%s", p.Multiplier, suffix)
}

// ParsePeriod разбирает строку вида "15m", "4h", "1d", "1w", "1M", "1y".
func ParsePeriod(s string) (Period, error) {
	if len(s) < 2 {
		return Period{}, errors.Errorf("не смог разобрать период %q", s)
	}
	multiplier, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || multiplier <= 0 {
		return Period{}, errors.Errorf("не смог разобрать множитель периода %q", s)
	}
	var timespan Timespan
	switch s[len(s)-1:] {
	case "m":
		timespan = SpanMinute
	case "h", "H":
		timespan = SpanHour
	case "d", "D":
		timespan = SpanDay
	case "w", "W":
		timespan = SpanWeek
	case "M":
		timespan = SpanMonth
	case "y", "Y":
		timespan = SpanYear
	default:
		return Period{}, errors.Errorf("неизвестная единица периода %q", s)
	}
	return Period{Multiplier: multiplier, Timespan: timespan, Text: s}, nil
}

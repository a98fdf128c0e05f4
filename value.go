package kfeed

// Разбор числовых значений, которые провайдеры присылают строками

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ParseValue разбирает строковое число провайдера. Нечисловое значение
// превращается в 0 с предупреждением в лог: одна битая цифра не должна
// ронять весь ответ.
func ParseValue(s string) float64 {
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		l.Warn("не смог разобрать число провайдера",
			zap.String("value", s), zap.Error(err))
		return 0
	}
	f, _ := d.Float64()
	return f
}

// PrecisionFromStep выводит количество знаков после запятой из шага
// цены или лота: "0.001" -> 3, "1" -> 0.
func PrecisionFromStep(step string) int {
	d, err := decimal.NewFromString(step)
	if err != nil {
		l.Warn("не смог разобрать шаг цены",
			zap.String("step", step), zap.Error(err))
		return 0
	}
	if e := d.Exponent(); e < 0 {
		return int(-e)
	}
	return 0
}

package kfeed

import (
	"golang.org/x/exp/slices"
)

// свеча в нативном формате графика
type Bar struct {
	Timestamp int64   // начало свечи, миллисекунды UTC
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Turnover  float64 // оборот в валюте котировки
}

// NormalizeBars приводит ответ провайдера к контракту графика:
// сортировка по возрастанию времени, удаление дублей (побеждает более
// поздняя запись), отсечение свечей вне [from, to] и расчёт оборота как
// close*volume, если провайдер его не отдал.
func NormalizeBars(bars []Bar, from int64, to int64) []Bar {
	slices.SortStableFunc(bars, func(a Bar, b Bar) bool {
		return a.Timestamp < b.Timestamp
	})
	result := make([]Bar, 0, len(bars))
	for _, b := range bars {
		if b.Timestamp < from || b.Timestamp > to {
			continue
		}
		if b.Turnover == 0 && b.Volume > 0 {
			b.Turnover = b.Close * b.Volume
		}
		if n := len(result); n > 0 && result[n-1].Timestamp == b.Timestamp {
			result[n-1] = b
			continue
		}
		result = append(result, b)
	}
	return result
}

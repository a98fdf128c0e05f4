package kfeed

// Мост между свечами графика и сериями techan

import (
	"time"

	"github.com/sdcoffey/big"
	"github.com/sdcoffey/techan"
	"golang.org/x/exp/slices"
)

//TODO линейный поиск, на длинных сериях надо переходить на деление пополам
func FindSeries(series *techan.TimeSeries, t time.Time) int {
	if series == nil {
		return -1
	}
	for idx, c := range series.Candles {
		if (t.After(c.Period.Start) && t.Before(c.Period.End)) ||
			t.Equal(c.Period.Start) {
			return idx
		}
	}
	return -1
}

func UpsertSeries(series *techan.TimeSeries, newCandle *techan.Candle) {
	idx := FindSeries(series, newCandle.Period.Start)

	if idx != -1 {
		series.Candles[idx] = newCandle
		return
	}
	if !series.AddCandle(newCandle) {
		series.Candles = append(series.Candles, newCandle)
		slices.SortFunc(series.Candles, func(a *techan.Candle, b *techan.Candle) bool {
			return a.Period.Start.Before(b.Period.Start)
		})
	}
}

// NewCandle переводит свечу графика в формат techan.
func NewCandle(bar Bar, period Period) *techan.Candle {
	start := time.UnixMilli(bar.Timestamp).UTC()
	candle := techan.NewCandle(techan.NewTimePeriod(start, period.Duration()))
	candle.OpenPrice = big.NewDecimal(bar.Open)
	candle.MaxPrice = big.NewDecimal(bar.High)
	candle.MinPrice = big.NewDecimal(bar.Low)
	candle.ClosePrice = big.NewDecimal(bar.Close)
	candle.Volume = big.NewDecimal(bar.Volume)
	return candle
}

// MergeBars вливает свечи графика в серию techan, обновляя совпадающие
// по времени.
func MergeBars(series *techan.TimeSeries, bars []Bar, period Period) {
	for _, b := range bars {
		UpsertSeries(series, NewCandle(b, period))
	}
}

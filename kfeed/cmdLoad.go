package main

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/go-trading/kfeed"
)

func load(c *cli.Context) error {
	feed, err := newDatafeed(c)
	if err != nil {
		return err
	}

	period, err := kfeed.ParsePeriod(c.String("period"))
	if err != nil {
		return err
	}
	symbol := resolveSymbol(c.Context, feed, c.String("ticker"))

	from := c.Timestamp("from").UnixMilli()
	to := c.Timestamp("to").UnixMilli()
	l.Info("скачиваю",
		zap.String("ticker", symbol.Ticker),
		zap.String("period", period.String()),
		zap.Int64("from", from), zap.Int64("to", to))

	bars, err := feed.GetHistoryKLineData(c.Context, symbol, period, from, to)
	if err != nil {
		l.Fatal("не смог скачать", zap.String("ticker", symbol.Ticker), zap.Error(err))
	}

	if err := kfeed.SaveBars(c.Path("data"), symbol.Ticker, period, bars); err != nil {
		l.DPanic("не смог сохранить свечи", zap.Error(err))
	}
	l.Info("готово", zap.Int("bars", len(bars)))
	return nil
}

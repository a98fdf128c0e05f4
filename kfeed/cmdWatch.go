package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sdcoffey/techan"
	"github.com/urfave/cli/v2"

	"github.com/go-trading/kfeed"
)

const rsiTimeframe = 14

func watch(c *cli.Context) error {
	feed, err := newDatafeed(c)
	if err != nil {
		return err
	}

	period, err := kfeed.ParsePeriod(c.String("period"))
	if err != nil {
		return err
	}
	symbol := resolveSymbol(c.Context, feed, c.String("ticker"))

	series := techan.NewTimeSeries()
	feed.Subscribe(symbol, period, func(bar kfeed.Bar) {
		kfeed.UpsertSeries(series, kfeed.NewCandle(bar, period))
		line := fmt.Sprintf("%s %s o=%g h=%g l=%g c=%g v=%g",
			time.UnixMilli(bar.Timestamp).UTC().Format("2006-01-02 15:04"),
			symbol.Ticker, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume)
		if last := series.LastIndex(); last >= rsiTimeframe {
			rsi := techan.NewRelativeStrengthIndexIndicator(
				techan.NewClosePriceIndicator(series),
				rsiTimeframe,
			).Calculate(last)
			line += fmt.Sprintf(" rsi=%s", rsi.FormattedString(2))
		}
		fmt.Println(line)
	})

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	feed.Unsubscribe(symbol, period)
	return nil
}

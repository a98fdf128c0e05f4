package okx

import (
	"testing"

	"github.com/go-trading/kfeed"
)

func TestUpstreamBar(t *testing.T) {
	cases := []struct {
		period kfeed.Period
		want   string
	}{
		{kfeed.Period{Multiplier: 1, Timespan: kfeed.SpanMinute}, "1m"},
		{kfeed.Period{Multiplier: 5, Timespan: kfeed.SpanMinute}, "5m"},
		// 10 минут OKX не умеет, округление вниз до 5
		{kfeed.Period{Multiplier: 10, Timespan: kfeed.SpanMinute}, "5m"},
		{kfeed.Period{Multiplier: 45, Timespan: kfeed.SpanMinute}, "30m"},
		{kfeed.Period{Multiplier: 4, Timespan: kfeed.SpanHour}, "4H"},
		{kfeed.Period{Multiplier: 5, Timespan: kfeed.SpanHour}, "4H"},
		{kfeed.Period{Multiplier: 1, Timespan: kfeed.SpanDay}, "1D"},
		{kfeed.Period{Multiplier: 1, Timespan: kfeed.SpanWeek}, "1W"},
		{kfeed.Period{Multiplier: 2, Timespan: kfeed.SpanWeek}, "1W"},
		{kfeed.Period{Multiplier: 1, Timespan: kfeed.SpanMonth}, "1M"},
		// годовых свечей нет, деградация до квартала
		{kfeed.Period{Multiplier: 1, Timespan: kfeed.SpanYear}, "3M"},
		{kfeed.Period{Multiplier: 0, Timespan: kfeed.SpanMinute}, "1m"},
		{kfeed.Period{Multiplier: 7, Timespan: "fortnight"}, "1m"},
	}
	for _, c := range cases {
		if got := upstreamBar(c.period); got != c.want {
			t.Errorf("upstreamBar(%d %s) = %q, want %q",
				c.period.Multiplier, c.period.Timespan, got, c.want)
		}
	}
}

func TestInstIDOf(t *testing.T) {
	cases := []struct {
		symbol kfeed.SymbolInfo
		want   string
	}{
		{kfeed.SymbolInfo{Ticker: "BTC-USDT"}, "BTC-USDT"},
		{kfeed.SymbolInfo{Ticker: "BTCUSDT", QuoteCurrency: "USDT"}, "BTC-USDT"},
		{kfeed.SymbolInfo{Ticker: "ETHBTC", QuoteCurrency: "BTC"}, "ETH-BTC"},
		// валюта котировки неизвестна, тикер остаётся как есть
		{kfeed.SymbolInfo{Ticker: "BTCUSDT"}, "BTCUSDT"},
	}
	for _, c := range cases {
		got := instIDOf(c.symbol)
		if got != c.want {
			t.Errorf("instIDOf(%q) = %q, want %q", c.symbol.Ticker, got, c.want)
		}
		// повторное применение ничего не меняет
		if again := instIDOf(kfeed.SymbolInfo{Ticker: got, QuoteCurrency: c.symbol.QuoteCurrency}); again != got {
			t.Errorf("instIDOf не идемпотентен: %q -> %q", got, again)
		}
	}
}

func TestChannelOf(t *testing.T) {
	symbol := kfeed.SymbolInfo{Ticker: "BTC-USDT"}
	period := kfeed.Period{Multiplier: 1, Timespan: kfeed.SpanMinute}
	if got := channelOf(symbol, period); got != "candle1m:BTC-USDT" {
		t.Errorf("channelOf = %q, want candle1m:BTC-USDT", got)
	}
}

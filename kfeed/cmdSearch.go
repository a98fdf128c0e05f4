package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/go-trading/kfeed"
	"github.com/go-trading/kfeed/providers"
)

func newDatafeed(c *cli.Context) (kfeed.Datafeed, error) {
	return providers.New(c.String("provider"), providers.Config{
		APIKey:  c.String("api-key"),
		BaseURL: c.String("base-url"),
		WSURL:   c.String("ws-url"),
		DataDir: c.Path("data"),
	})
}

// resolveSymbol ищет описание инструмента по тикеру. Если провайдер его
// не знает, работа продолжается с голым тикером.
func resolveSymbol(ctx context.Context, feed kfeed.Datafeed, ticker string) kfeed.SymbolInfo {
	symbols, _ := feed.SearchSymbols(ctx, ticker)
	for _, s := range symbols {
		if s.Ticker == ticker {
			return s
		}
	}
	return kfeed.SymbolInfo{Ticker: ticker}
}

func search(c *cli.Context) error {
	feed, err := newDatafeed(c)
	if err != nil {
		return err
	}

	symbols, err := feed.SearchSymbols(c.Context, c.String("query"))
	if err != nil {
		return err
	}
	for _, s := range symbols {
		fmt.Printf("%-20s %-10s %-6s/%-6s %s\n",
			s.Ticker, s.Exchange, s.BaseCurrency, s.QuoteCurrency, s.Name)
	}
	fmt.Printf("всего: %d\n", len(symbols))
	return nil
}

package local

// Адаптер произвольного локального бэкенда. Потокового API у него нет,
// живые свечи эмулируются периодическим опросом REST.

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/go-trading/kfeed"
	"github.com/go-trading/kfeed/stream"
)

const symbolsTTL = time.Hour

var _ kfeed.Datafeed = (*Datafeed)(nil)

type Datafeed struct {
	baseURL string
	client  *http.Client
	symbols *kfeed.SymbolCache

	lock    sync.Mutex
	channel string
	poller  *stream.Poller
}

func New(baseURL string) *Datafeed {
	d := &Datafeed{
		baseURL: baseURL,
		client:  kfeed.NewHTTPClient(),
	}
	d.symbols = kfeed.NewSymbolCache(symbolsTTL, d.loadSymbols)
	return d
}

type symbolRecord struct {
	Ticker          string `json:"ticker"`
	Name            string `json:"name"`
	Exchange        string `json:"exchange"`
	BaseCurrency    string `json:"base"`
	QuoteCurrency   string `json:"quote"`
	PricePrecision  int    `json:"pricePrecision"`
	VolumePrecision int    `json:"volumePrecision"`
}

func (d *Datafeed) loadSymbols(ctx context.Context) ([]kfeed.SymbolInfo, error) {
	var records []symbolRecord
	if err := kfeed.FetchJSON(ctx, d.client, "local", d.baseURL+"/symbols", &records); err != nil {
		return nil, err
	}
	symbols := make([]kfeed.SymbolInfo, 0, len(records))
	for _, r := range records {
		symbols = append(symbols, kfeed.SymbolInfo{
			Ticker:          r.Ticker,
			Name:            r.Name,
			Exchange:        r.Exchange,
			BaseCurrency:    r.BaseCurrency,
			QuoteCurrency:   r.QuoteCurrency,
			PricePrecision:  r.PricePrecision,
			VolumePrecision: r.VolumePrecision,
		})
	}
	return symbols, nil
}

func (d *Datafeed) SearchSymbols(ctx context.Context, query string) ([]kfeed.SymbolInfo, error) {
	symbols, err := d.symbols.Get(ctx)
	if err != nil {
		// поиск best-effort: сбой бэкенда превращается в пустой список
		l.Warn("не смог загрузить список инструментов", zap.Error(err))
		return []kfeed.SymbolInfo{}, nil
	}
	return kfeed.FilterSymbols(symbols, query), nil
}

type klineRecord struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
	Turnover  float64 `json:"turnover"`
}

func (d *Datafeed) fetchKlines(ctx context.Context, symbol kfeed.SymbolInfo, period kfeed.Period, from int64, to int64) ([]kfeed.Bar, error) {
	u := fmt.Sprintf("%s/klines?symbol=%s&period=%s&from=%d&to=%d",
		d.baseURL, url.QueryEscape(symbol.Ticker), period.String(), from, to)
	var records []klineRecord
	if err := kfeed.FetchJSON(ctx, d.client, "local", u, &records); err != nil {
		return nil, err
	}
	bars := make([]kfeed.Bar, 0, len(records))
	for _, r := range records {
		bars = append(bars, kfeed.Bar{
			Timestamp: r.Timestamp,
			Open:      r.Open,
			High:      r.High,
			Low:       r.Low,
			Close:     r.Close,
			Volume:    r.Volume,
			Turnover:  r.Turnover,
		})
	}
	return bars, nil
}

func (d *Datafeed) GetHistoryKLineData(ctx context.Context, symbol kfeed.SymbolInfo, period kfeed.Period, from int64, to int64) ([]kfeed.Bar, error) {
	bars, err := d.fetchKlines(ctx, symbol, period, from, to)
	if err != nil {
		return nil, err
	}
	return kfeed.NormalizeBars(bars, from, to), nil
}

func channelOf(symbol kfeed.SymbolInfo, period kfeed.Period) string {
	return symbol.Ticker + ":" + period.String()
}

// Subscribe запускает опрос последней свечи. Новый вызов останавливает
// предыдущий опрос: живая подписка у адаптера всегда одна.
func (d *Datafeed) Subscribe(symbol kfeed.SymbolInfo, period kfeed.Period, callback kfeed.SubscribeCallback) {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.poller != nil {
		d.poller.Stop()
		d.poller = nil
	}

	d.channel = channelOf(symbol, period)
	fetch := func(ctx context.Context, sinceMs int64) (kfeed.Bar, bool, error) {
		from := sinceMs + 1
		if sinceMs == 0 {
			// первый опрос: беру текущую свечу, а не всю историю
			from = time.Now().Add(-period.Duration()).UnixMilli()
		}
		bars, err := d.fetchKlines(ctx, symbol, period, from, time.Now().UnixMilli())
		if err != nil || len(bars) == 0 {
			return kfeed.Bar{}, false, err
		}
		latest := bars[0]
		for _, b := range bars[1:] {
			if b.Timestamp > latest.Timestamp {
				latest = b
			}
		}
		if latest.Turnover == 0 {
			latest.Turnover = latest.Close * latest.Volume
		}
		return latest, true, nil
	}
	d.poller = stream.NewPoller("local", stream.PollInterval(period), fetch, callback)
	d.poller.Start()
}

// Unsubscribe останавливает опрос. Несовпадающий канал — запоздавший
// вызов по уже заменённой подписке, он ничего не делает.
func (d *Datafeed) Unsubscribe(symbol kfeed.SymbolInfo, period kfeed.Period) {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.channel != channelOf(symbol, period) {
		l.Debug("отписка по неактивному каналу, пропускаю",
			zap.String("channel", channelOf(symbol, period)),
			zap.String("active", d.channel))
		return
	}
	if d.poller != nil {
		d.poller.Stop()
		d.poller = nil
	}
	d.channel = ""
}

package polygon

// Адаптер polygon.io: агрегированные данные множества бирж за одним API.

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/go-trading/kfeed"
	"github.com/go-trading/kfeed/stream"
)

const (
	DefaultAPIURL = "https://api.polygon.io"
	DefaultWSURL  = "wss://socket.polygon.io/crypto"

	// максимум свечей на страницу ответа; за более глубокой историей
	// вызывающий ходит сам, сдвигая диапазон назад
	maxBarsPerRequest = 1000

	symbolsTTL = time.Hour
)

var _ kfeed.Datafeed = (*Datafeed)(nil)

type Datafeed struct {
	apiKey  string
	baseURL string
	client  *http.Client
	symbols *kfeed.SymbolCache
	conn    *stream.Conn
}

// New создаёт адаптер. Пустые baseURL и wsURL заменяются боевыми
// адресами polygon.
func New(apiKey string, baseURL string, wsURL string) *Datafeed {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	if wsURL == "" {
		wsURL = DefaultWSURL
	}
	d := &Datafeed{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  kfeed.NewHTTPClient(),
	}
	d.symbols = kfeed.NewSymbolCache(symbolsTTL, d.loadSymbols)
	d.conn = stream.NewConn("polygon", &codec{wsURL: wsURL, apiKey: apiKey})
	return d
}

type tickersResponse struct {
	Results []struct {
		Ticker   string `json:"ticker"`
		Name     string `json:"name"`
		Base     string `json:"base_currency_symbol"`
		Quote    string `json:"currency_symbol"`
		Exchange string `json:"primary_exchange"`
		Active   bool   `json:"active"`
	} `json:"results"`
	Status string `json:"status"`
}

func (d *Datafeed) loadSymbols(ctx context.Context) ([]kfeed.SymbolInfo, error) {
	u := fmt.Sprintf("%s/v3/reference/tickers?market=crypto&active=true&limit=1000&apiKey=%s",
		d.baseURL, url.QueryEscape(d.apiKey))
	var resp tickersResponse
	if err := kfeed.FetchJSON(ctx, d.client, "polygon", u, &resp); err != nil {
		return nil, err
	}
	symbols := make([]kfeed.SymbolInfo, 0, len(resp.Results))
	for _, t := range resp.Results {
		if !t.Active {
			continue
		}
		symbols = append(symbols, kfeed.SymbolInfo{
			Ticker:          t.Ticker,
			Name:            t.Name,
			Exchange:        t.Exchange,
			BaseCurrency:    t.Base,
			QuoteCurrency:   t.Quote,
			PricePrecision:  2,
			VolumePrecision: 8,
		})
	}
	return symbols, nil
}

func (d *Datafeed) SearchSymbols(ctx context.Context, query string) ([]kfeed.SymbolInfo, error) {
	symbols, err := d.symbols.Get(ctx)
	if err != nil {
		// поиск best-effort: сбой провайдера превращается в пустой список
		l.Warn("не смог загрузить список инструментов", zap.Error(err))
		return []kfeed.SymbolInfo{}, nil
	}
	return kfeed.FilterSymbols(symbols, query), nil
}

type aggsResponse struct {
	Ticker  string `json:"ticker"`
	Results []struct {
		Timestamp int64   `json:"t"`
		Open      float64 `json:"o"`
		High      float64 `json:"h"`
		Low       float64 `json:"l"`
		Close     float64 `json:"c"`
		Volume    float64 `json:"v"`
		VWAP      float64 `json:"vw"`
	} `json:"results"`
	Status string `json:"status"`
}

func (d *Datafeed) GetHistoryKLineData(ctx context.Context, symbol kfeed.SymbolInfo, period kfeed.Period, from int64, to int64) ([]kfeed.Bar, error) {
	multiplier := period.Multiplier
	if multiplier <= 0 {
		multiplier = 1
	}
	u := fmt.Sprintf("%s/v2/aggs/ticker/%s/range/%d/%s/%d/%d?limit=%d&apiKey=%s",
		d.baseURL, url.PathEscape(symbol.Ticker), multiplier,
		upstreamTimespan(period), from, to, maxBarsPerRequest,
		url.QueryEscape(d.apiKey))

	var resp aggsResponse
	if err := kfeed.FetchJSON(ctx, d.client, "polygon", u, &resp); err != nil {
		return nil, err
	}

	bars := make([]kfeed.Bar, 0, len(resp.Results))
	for _, r := range resp.Results {
		bar := kfeed.Bar{
			Timestamp: r.Timestamp,
			Open:      r.Open,
			High:      r.High,
			Low:       r.Low,
			Close:     r.Close,
			Volume:    r.Volume,
		}
		if r.VWAP > 0 {
			// средневзвешенная цена точнее close для оценки оборота
			bar.Turnover = r.VWAP * r.Volume
		}
		bars = append(bars, bar)
	}
	return kfeed.NormalizeBars(bars, from, to), nil
}

func (d *Datafeed) Subscribe(symbol kfeed.SymbolInfo, period kfeed.Period, callback kfeed.SubscribeCallback) {
	// поток polygon отдаёт только минутные агрегаты, свечи крупнее
	// график строит сам
	d.conn.Subscribe(channelOf(symbol), callback)
}

func (d *Datafeed) Unsubscribe(symbol kfeed.SymbolInfo, period kfeed.Period) {
	d.conn.Unsubscribe(channelOf(symbol))
}

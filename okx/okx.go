package okx

// Адаптер OKX: публичный REST и websocket одной биржи.

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/go-trading/kfeed"
	"github.com/go-trading/kfeed/stream"
)

const (
	DefaultAPIURL = "https://www.okx.com"
	DefaultWSURL  = "wss://ws.okx.com:8443/ws/v5/business"

	// лимит свечей на страницу у OKX
	maxBarsPerRequest = 300

	symbolsTTL = time.Hour
)

var _ kfeed.Datafeed = (*Datafeed)(nil)

type Datafeed struct {
	baseURL string
	client  *http.Client
	symbols *kfeed.SymbolCache
	conn    *stream.Conn
}

func New(baseURL string, wsURL string) *Datafeed {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	if wsURL == "" {
		wsURL = DefaultWSURL
	}
	d := &Datafeed{
		baseURL: baseURL,
		client:  kfeed.NewHTTPClient(),
	}
	d.symbols = kfeed.NewSymbolCache(symbolsTTL, d.loadSymbols)
	d.conn = stream.NewConn("okx", &codec{wsURL: wsURL})
	return d
}

type instrumentsResponse struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data []struct {
		InstID   string `json:"instId"`
		BaseCcy  string `json:"baseCcy"`
		QuoteCcy string `json:"quoteCcy"`
		TickSz   string `json:"tickSz"`
		LotSz    string `json:"lotSz"`
		State    string `json:"state"`
	} `json:"data"`
}

func (d *Datafeed) loadSymbols(ctx context.Context) ([]kfeed.SymbolInfo, error) {
	u := d.baseURL + "/api/v5/public/instruments?instType=SPOT"
	var resp instrumentsResponse
	if err := kfeed.FetchJSON(ctx, d.client, "okx", u, &resp); err != nil {
		return nil, err
	}
	if resp.Code != "0" {
		return nil, errors.Errorf("okx: код ответа %s: %s", resp.Code, resp.Msg)
	}
	symbols := make([]kfeed.SymbolInfo, 0, len(resp.Data))
	for _, inst := range resp.Data {
		if inst.State != "live" {
			continue
		}
		symbols = append(symbols, kfeed.SymbolInfo{
			Ticker:          inst.InstID,
			Name:            inst.BaseCcy + "/" + inst.QuoteCcy,
			Exchange:        "OKX",
			BaseCurrency:    inst.BaseCcy,
			QuoteCurrency:   inst.QuoteCcy,
			PricePrecision:  kfeed.PrecisionFromStep(inst.TickSz),
			VolumePrecision: kfeed.PrecisionFromStep(inst.LotSz),
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

type candlesResponse struct {
	Code string     `json:"code"`
	Msg  string     `json:"msg"`
	Data [][]string `json:"data"`
}

// GetHistoryKLineData загружает страницу истории. OKX отдаёт свечи от
// новых к старым, NormalizeBars разворачивает их в порядок графика.
func (d *Datafeed) GetHistoryKLineData(ctx context.Context, symbol kfeed.SymbolInfo, period kfeed.Period, from int64, to int64) ([]kfeed.Bar, error) {
	u := fmt.Sprintf("%s/api/v5/market/candles?instId=%s&bar=%s&after=%d&limit=%d",
		d.baseURL, url.QueryEscape(instIDOf(symbol)), upstreamBar(period),
		to+1, maxBarsPerRequest)

	var resp candlesResponse
	if err := kfeed.FetchJSON(ctx, d.client, "okx", u, &resp); err != nil {
		return nil, err
	}
	if resp.Code != "0" {
		return nil, errors.Errorf("okx: код ответа %s: %s", resp.Code, resp.Msg)
	}

	bars := make([]kfeed.Bar, 0, len(resp.Data))
	for _, record := range resp.Data {
		bar, err := parseCandle(record)
		if err != nil {
			l.Warn("пропускаю свечу, которую не смог разобрать", zap.Error(err))
			continue
		}
		bars = append(bars, bar)
	}
	return kfeed.NormalizeBars(bars, from, to), nil
}

// parseCandle разбирает запись [ts,o,h,l,c,vol,volCcy,volCcyQuote,confirm].
// Хвостовые поля у некоторых эндпоинтов отсутствуют.
func parseCandle(record []string) (kfeed.Bar, error) {
	if len(record) < 6 {
		return kfeed.Bar{}, errors.Errorf("в записи %d полей, ожидаю не меньше 6", len(record))
	}
	ts, err := strconv.ParseInt(record[0], 10, 64)
	if err != nil {
		return kfeed.Bar{}, errors.Wrap(err, "не смог разобрать время свечи")
	}
	bar := kfeed.Bar{
		Timestamp: ts,
		Open:      kfeed.ParseValue(record[1]),
		High:      kfeed.ParseValue(record[2]),
		Low:       kfeed.ParseValue(record[3]),
		Close:     kfeed.ParseValue(record[4]),
		Volume:    kfeed.ParseValue(record[5]),
	}
	if len(record) > 7 {
		bar.Turnover = kfeed.ParseValue(record[7])
	}
	return bar, nil
}

func (d *Datafeed) Subscribe(symbol kfeed.SymbolInfo, period kfeed.Period, callback kfeed.SubscribeCallback) {
	d.conn.Subscribe(channelOf(symbol, period), callback)
}

func (d *Datafeed) Unsubscribe(symbol kfeed.SymbolInfo, period kfeed.Period) {
	d.conn.Unsubscribe(channelOf(symbol, period))
}

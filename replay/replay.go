package replay

// Офлайн-источник: история берётся из csv-файлов, сохранённых командой
// load, «живые» свечи проигрываются из той же истории по таймеру.
// Позволяет гонять график без сети и без ключей API.

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/go-trading/kfeed"
	"github.com/go-trading/kfeed/stream"
)

// темп проигрывания: одна свеча истории в секунду
var replayTick = time.Second

var _ kfeed.Datafeed = (*Datafeed)(nil)

type Datafeed struct {
	dataDir string

	lock    sync.Mutex
	channel string
	poller  *stream.Poller
}

func New(dataDir string) *Datafeed {
	return &Datafeed{dataDir: dataDir}
}

// SearchSymbols перечисляет тикеры, по которым в каталоге есть файлы.
func (d *Datafeed) SearchSymbols(ctx context.Context, query string) ([]kfeed.SymbolInfo, error) {
	entries, err := os.ReadDir(d.dataDir)
	if err != nil {
		l.Warn("не смог прочитать каталог с данными",
			zap.String("dataDir", d.dataDir), zap.Error(err))
		return []kfeed.SymbolInfo{}, nil
	}

	seen := make(map[string]bool)
	var symbols []kfeed.SymbolInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".csv") {
			continue
		}
		// имя файла: <тикер>_<период>.csv
		idx := strings.LastIndex(name, "_")
		if idx <= 0 {
			continue
		}
		ticker := name[:idx]
		if seen[ticker] {
			continue
		}
		seen[ticker] = true
		symbols = append(symbols, kfeed.SymbolInfo{
			Ticker:   ticker,
			Name:     ticker,
			Exchange: "replay",
		})
	}
	return kfeed.FilterSymbols(symbols, query), nil
}

func (d *Datafeed) GetHistoryKLineData(ctx context.Context, symbol kfeed.SymbolInfo, period kfeed.Period, from int64, to int64) ([]kfeed.Bar, error) {
	bars, err := kfeed.LoadBars(d.dataDir, symbol.Ticker, period)
	if err != nil {
		return nil, err
	}
	return kfeed.NormalizeBars(bars, from, to), nil
}

func channelOf(symbol kfeed.SymbolInfo, period kfeed.Period) string {
	return symbol.Ticker + ":" + period.String()
}

// Subscribe проигрывает сохранённую историю по одной свече на тик.
func (d *Datafeed) Subscribe(symbol kfeed.SymbolInfo, period kfeed.Period, callback kfeed.SubscribeCallback) {
	bars, err := kfeed.LoadBars(d.dataDir, symbol.Ticker, period)
	if err != nil {
		l.Warn("нет данных для проигрывания",
			zap.String("ticker", symbol.Ticker), zap.Error(err))
		return
	}
	bars = kfeed.NormalizeBars(bars, 0, time.Now().UnixMilli())

	d.lock.Lock()
	defer d.lock.Unlock()

	if d.poller != nil {
		d.poller.Stop()
		d.poller = nil
	}
	d.channel = channelOf(symbol, period)

	fetch := func(ctx context.Context, sinceMs int64) (kfeed.Bar, bool, error) {
		for _, b := range bars {
			if b.Timestamp > sinceMs {
				return b, true, nil
			}
		}
		return kfeed.Bar{}, false, nil
	}
	d.poller = stream.NewPoller("replay", replayTick, fetch, callback)
	d.poller.Start()
}

func (d *Datafeed) Unsubscribe(symbol kfeed.SymbolInfo, period kfeed.Period) {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.channel != channelOf(symbol, period) {
		return
	}
	if d.poller != nil {
		d.poller.Stop()
		d.poller = nil
	}
	d.channel = ""
}

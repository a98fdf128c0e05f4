package replay

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-trading/kfeed"
)

var testPeriod = kfeed.Period{Multiplier: 1, Timespan: kfeed.SpanMinute}

// свечи на минутной сетке: csv хранит время с точностью до минуты
var testBars = []kfeed.Bar{
	{Timestamp: 1700000040000, Open: 100, High: 102, Low: 99, Close: 101, Volume: 8, Turnover: 808},
	{Timestamp: 1700000100000, Open: 101, High: 103, Low: 100, Close: 102, Volume: 9, Turnover: 918},
	{Timestamp: 1700000160000, Open: 102, High: 104, Low: 101, Close: 103, Volume: 10, Turnover: 1030},
}

func newDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := kfeed.SaveBars(dir, "BTCUSDT", testPeriod, testBars); err != nil {
		t.Fatalf("SaveBars: %v", err)
	}
	if err := kfeed.SaveBars(dir, "ETHUSDT", testPeriod, testBars[:1]); err != nil {
		t.Fatalf("SaveBars: %v", err)
	}
	return dir
}

func TestSearchSymbols(t *testing.T) {
	dir := newDataDir(t)
	d := New(dir)

	symbols, err := d.SearchSymbols(context.Background(), "")
	if err != nil {
		t.Fatalf("SearchSymbols: %v", err)
	}
	if len(symbols) != 2 {
		t.Fatalf("нашёл %d тикеров, ожидал 2: %v", len(symbols), symbols)
	}

	symbols, err = d.SearchSymbols(context.Background(), "eth")
	if err != nil {
		t.Fatalf("SearchSymbols: %v", err)
	}
	if len(symbols) != 1 || symbols[0].Ticker != "ETHUSDT" {
		t.Errorf("нашёл %v, ожидал один ETHUSDT", symbols)
	}
}

func TestSearchSymbols_EmptyDir(t *testing.T) {
	d := New(t.TempDir())
	symbols, err := d.SearchSymbols(context.Background(), "")
	if err != nil {
		t.Fatalf("SearchSymbols: %v", err)
	}
	if len(symbols) != 0 {
		t.Errorf("пустой каталог дал тикеры: %v", symbols)
	}
}

func TestGetHistoryKLineData(t *testing.T) {
	dir := newDataDir(t)
	d := New(dir)
	symbol := kfeed.SymbolInfo{Ticker: "BTCUSDT"}

	bars, err := d.GetHistoryKLineData(context.Background(), symbol, testPeriod,
		testBars[0].Timestamp, testBars[2].Timestamp)
	if err != nil {
		t.Fatalf("GetHistoryKLineData: %v", err)
	}
	if len(bars) != 3 {
		t.Fatalf("получил %d свечей, ожидал 3", len(bars))
	}
	if bars[1].Close != 102 || bars[1].Turnover != 918 {
		t.Errorf("неожиданная свеча: %+v", bars[1])
	}

	// срез диапазона
	bars, err = d.GetHistoryKLineData(context.Background(), symbol, testPeriod,
		testBars[1].Timestamp, testBars[2].Timestamp)
	if err != nil {
		t.Fatalf("GetHistoryKLineData: %v", err)
	}
	if len(bars) != 2 || bars[0].Timestamp != testBars[1].Timestamp {
		t.Errorf("границы диапазона нарушены: %v", bars)
	}
}

func TestGetHistoryKLineData_MissingFile(t *testing.T) {
	d := New(t.TempDir())
	_, err := d.GetHistoryKLineData(context.Background(),
		kfeed.SymbolInfo{Ticker: "NOPE"}, testPeriod, 0, time.Now().UnixMilli())
	if err == nil {
		t.Fatal("ожидал ошибку для отсутствующего файла")
	}
}

// Подписка проигрывает сохранённую историю по одной свече на тик.
func TestSubscribeReplaysHistory(t *testing.T) {
	savedTick := replayTick
	replayTick = 10 * time.Millisecond
	defer func() { replayTick = savedTick }()

	dir := newDataDir(t)
	d := New(dir)
	symbol := kfeed.SymbolInfo{Ticker: "BTCUSDT"}

	var lock sync.Mutex
	var got []int64
	d.Subscribe(symbol, testPeriod, func(bar kfeed.Bar) {
		lock.Lock()
		got = append(got, bar.Timestamp)
		lock.Unlock()
	})
	defer d.Unsubscribe(symbol, testPeriod)

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		lock.Lock()
		n := len(got)
		lock.Unlock()
		if n >= len(testBars) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	lock.Lock()
	defer lock.Unlock()
	if len(got) != len(testBars) {
		t.Fatalf("проиграно %d свечей, ожидал %d: %v", len(got), len(testBars), got)
	}
	for i, bar := range testBars {
		if got[i] != bar.Timestamp {
			t.Errorf("свеча %d: время %d, ожидал %d", i, got[i], bar.Timestamp)
		}
	}
}

func TestSubscribe_NoData(t *testing.T) {
	d := New(t.TempDir())
	symbol := kfeed.SymbolInfo{Ticker: "NOPE"}
	// подписка без данных не должна паниковать и ничего не запускает
	d.Subscribe(symbol, testPeriod, func(kfeed.Bar) {})

	d.lock.Lock()
	defer d.lock.Unlock()
	if d.poller != nil {
		t.Error("опрос запущен без данных для проигрывания")
	}
}

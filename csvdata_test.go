package kfeed

import (
	"testing"
)

func TestSaveLoadBars(t *testing.T) {
	dir := t.TempDir()
	period := Period{Multiplier: 15, Timespan: SpanMinute, Text: "15m"}
	bars := []Bar{
		{Timestamp: 1700000100000, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10, Turnover: 15},
		{Timestamp: 1700001000000, Open: 1.5, High: 3, Low: 1, Close: 2.5, Volume: 20, Turnover: 50},
	}

	if err := SaveBars(dir, "BTC-USDT", period, bars); err != nil {
		t.Fatal(err)
	}
	got, err := LoadBars(dir, "BTC-USDT", period)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("ожидал 2 свечи, получил %d", len(got))
	}
	if got[0].Close != 1.5 || got[1].Turnover != 50 {
		t.Errorf("значения искажены: %+v", got)
	}
	// csv хранит время с точностью до минуты
	if got[0].Timestamp != 1700000100000-1700000100000%60000 {
		t.Errorf("время первой свечи: %d", got[0].Timestamp)
	}
}

func TestLoadBars_MissingFile(t *testing.T) {
	if _, err := LoadBars(t.TempDir(), "NOPE", Period{Multiplier: 1, Timespan: SpanMinute}); err == nil {
		t.Error("ожидал ошибку по отсутствующему файлу")
	}
}

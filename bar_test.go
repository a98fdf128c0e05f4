package kfeed

import (
	"testing"
)

func TestNormalizeBars_ReversesNewestFirst(t *testing.T) {
	newestFirst := []Bar{
		{Timestamp: 5000, Open: 5, High: 6, Low: 4, Close: 5.5, Volume: 50},
		{Timestamp: 4000, Open: 4, High: 5, Low: 3, Close: 4.5, Volume: 40},
		{Timestamp: 3000, Open: 3, High: 4, Low: 2, Close: 3.5, Volume: 30},
		{Timestamp: 2000, Open: 2, High: 3, Low: 1, Close: 2.5, Volume: 20},
		{Timestamp: 1000, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10},
	}
	got := NormalizeBars(newestFirst, 0, 10000)
	if len(got) != 5 {
		t.Fatalf("ожидал 5 свечей, получил %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp <= got[i-1].Timestamp {
			t.Fatalf("время не возрастает: %d после %d", got[i].Timestamp, got[i-1].Timestamp)
		}
	}
	if got[0].Timestamp != 1000 || got[0].Open != 1 || got[0].Volume != 10 {
		t.Errorf("первая свеча искажена: %+v", got[0])
	}
	if got[4].Timestamp != 5000 || got[4].Close != 5.5 {
		t.Errorf("последняя свеча искажена: %+v", got[4])
	}
}

func TestNormalizeBars_ClipsToRange(t *testing.T) {
	bars := []Bar{
		{Timestamp: 1000},
		{Timestamp: 2000},
		{Timestamp: 3000},
		{Timestamp: 4000},
	}
	got := NormalizeBars(bars, 2000, 3000)
	if len(got) != 2 {
		t.Fatalf("ожидал 2 свечи в диапазоне, получил %d", len(got))
	}
	for _, b := range got {
		if b.Timestamp < 2000 || b.Timestamp > 3000 {
			t.Errorf("свеча %d вне диапазона [2000, 3000]", b.Timestamp)
		}
	}
}

func TestNormalizeBars_FillsTurnover(t *testing.T) {
	bars := []Bar{
		{Timestamp: 1000, Close: 100, Volume: 3},
		{Timestamp: 2000, Close: 50, Volume: 2, Turnover: 123},
	}
	got := NormalizeBars(bars, 0, 10000)
	if got[0].Turnover != 300 {
		t.Errorf("ожидал оборот close*volume = 300, получил %g", got[0].Turnover)
	}
	if got[1].Turnover != 123 {
		t.Errorf("присланный провайдером оборот затёрт: %g", got[1].Turnover)
	}
}

func TestNormalizeBars_DropsDuplicates(t *testing.T) {
	bars := []Bar{
		{Timestamp: 1000, Close: 1},
		{Timestamp: 1000, Close: 2},
		{Timestamp: 2000, Close: 3},
	}
	got := NormalizeBars(bars, 0, 10000)
	if len(got) != 2 {
		t.Fatalf("ожидал схлопывание дубля, получил %d свечей", len(got))
	}
	if got[0].Close != 2 {
		t.Errorf("при дубле должна побеждать более поздняя запись, получил close=%g", got[0].Close)
	}
}

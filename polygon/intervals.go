package polygon

// Перевод периодов и тикеров графика в словарь polygon

import (
	"strings"

	"go.uber.org/zap"

	"github.com/go-trading/kfeed"
)

var timespans = map[kfeed.Timespan]string{
	kfeed.SpanMinute: "minute",
	kfeed.SpanHour:   "hour",
	kfeed.SpanDay:    "day",
	kfeed.SpanWeek:   "week",
	kfeed.SpanMonth:  "month",
	kfeed.SpanYear:   "year",
}

// upstreamTimespan переводит единицу периода. Множитель polygon принимает
// любой, округлять его не нужно.
func upstreamTimespan(period kfeed.Period) string {
	ts, ok := timespans[period.Timespan]
	if !ok {
		l.Warn("неизвестная единица периода, беру минуту",
			zap.String("timespan", string(period.Timespan)))
		return "minute"
	}
	return ts
}

// pairOf строит пару BASE-QUOTE для потокового канала: срезает префикс
// рынка ("X:BTCUSDT" -> "BTCUSDT") и вставляет разделитель перед валютой
// котировки. Для тикера, уже приведённого к целевому виду, возвращает
// его без изменений.
func pairOf(symbol kfeed.SymbolInfo) string {
	ticker := symbol.Ticker
	if idx := strings.IndexAny(ticker, ":."); idx >= 0 {
		ticker = ticker[idx+1:]
	}
	if strings.Contains(ticker, "-") {
		return ticker
	}
	quote := symbol.QuoteCurrency
	if quote != "" && strings.HasSuffix(ticker, quote) && len(ticker) > len(quote) {
		return ticker[:len(ticker)-len(quote)] + "-" + quote
	}
	return ticker
}

// канал минутных агрегатов пары
func channelOf(symbol kfeed.SymbolInfo) string {
	return "XA." + pairOf(symbol)
}

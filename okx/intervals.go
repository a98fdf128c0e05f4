package okx

// Перевод периодов и тикеров графика в словарь OKX

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/go-trading/kfeed"
)

// поддерживаемые множители по единицам периода, по возрастанию
var supportedMultipliers = map[kfeed.Timespan][]int{
	kfeed.SpanMinute: {1, 3, 5, 15, 30},
	kfeed.SpanHour:   {1, 2, 4, 6, 12},
	kfeed.SpanDay:    {1, 2, 3},
	kfeed.SpanWeek:   {1},
	kfeed.SpanMonth:  {1, 3},
}

// upstreamBar переводит период в словарь bar OKX. Неподдерживаемый
// множитель округляется вниз до ближайшего поддерживаемого: сервить
// более мелкую свечу, чем просили, нельзя, более крупную — деградация,
// о которой предупреждает лог. Неизвестная единица превращается в "1m".
func upstreamBar(period kfeed.Period) string {
	multiplier := period.Multiplier
	if multiplier <= 0 {
		multiplier = 1
	}

	timespan := period.Timespan
	if timespan == kfeed.SpanYear {
		// годовых свечей у OKX нет, ближайшая не превышающая — квартал
		return "3M"
	}

	supported, ok := supportedMultipliers[timespan]
	if !ok {
		l.Warn("неизвестная единица периода, беру 1m",
			zap.String("timespan", string(timespan)))
		return "1m"
	}

	chosen := kfeed.NearestSupported(multiplier, supported)
	if chosen != multiplier {
		l.Warn("период не поддерживается OKX, округляю вниз",
			zap.Int("requested", multiplier),
			zap.Int("chosen", chosen),
			zap.String("timespan", string(timespan)))
	}

	switch timespan {
	case kfeed.SpanMinute:
		return fmt.Sprintf("%dm", chosen)
	case kfeed.SpanHour:
		return fmt.Sprintf("%dH", chosen)
	case kfeed.SpanDay:
		return fmt.Sprintf("%dD", chosen)
	case kfeed.SpanWeek:
		return fmt.Sprintf("%dW", chosen)
	default:
		return fmt.Sprintf("%dM", chosen)
	}
}

// instIDOf строит идентификатор инструмента BASE-QUOTE. Тикер, уже
// содержащий разделитель, возвращается без изменений.
func instIDOf(symbol kfeed.SymbolInfo) string {
	ticker := symbol.Ticker
	if strings.Contains(ticker, "-") {
		return ticker
	}
	quote := symbol.QuoteCurrency
	if quote != "" && strings.HasSuffix(ticker, quote) && len(ticker) > len(quote) {
		return ticker[:len(ticker)-len(quote)] + "-" + quote
	}
	return ticker
}

// ключ канала подписки: словарный bar провайдера плюс инструмент
func channelOf(symbol kfeed.SymbolInfo, period kfeed.Period) string {
	return "candle" + upstreamBar(period) + ":" + instIDOf(symbol)
}

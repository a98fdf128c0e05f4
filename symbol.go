package kfeed

import (
	"strings"
)

// описание инструмента
type SymbolInfo struct {
	Ticker          string // идентификатор инструмента в нейтральном виде
	Name            string // отображаемое название
	Exchange        string // торговая площадка
	BaseCurrency    string // базовая валюта
	QuoteCurrency   string // валюта котировки
	PricePrecision  int    // знаков после запятой в цене
	VolumePrecision int    // знаков после запятой в объёме
}

// Match проверяет, подходит ли инструмент под поисковый запрос.
// Сравнение без учёта регистра по тикеру, базовой и котируемой валюте.
// Пустой запрос подходит всем.
func (s SymbolInfo) Match(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(s.Ticker), q) ||
		strings.Contains(strings.ToLower(s.BaseCurrency), q) ||
		strings.Contains(strings.ToLower(s.QuoteCurrency), q)
}

func FilterSymbols(symbols []SymbolInfo, query string) []SymbolInfo {
	result := make([]SymbolInfo, 0, len(symbols))
	for _, s := range symbols {
		if s.Match(query) {
			result = append(result, s)
		}
	}
	return result
}

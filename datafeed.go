package kfeed

import (
	"context"
)

// интерфейс источника данных для графика. Каждый провайдер реализует его
// независимо, график работает только через этот контракт.
type Datafeed interface {
	// Поиск инструментов. Пустой запрос возвращает весь список активных
	// инструментов. Ошибки провайдера не пробрасываются: поиск
	// best-effort, при сбое возвращается пустой список.
	SearchSymbols(ctx context.Context, query string) ([]SymbolInfo, error)

	// Загрузка исторических свечей диапазона [from, to] в миллисекундах.
	// Возвращает не больше одной страницы провайдера, за остальной
	// историей вызывающий ходит сам, сдвигая диапазон назад.
	GetHistoryKLineData(ctx context.Context, symbol SymbolInfo, period Period, from int64, to int64) ([]Bar, error)

	// Подписка на живые свечи. Повторный вызов заменяет предыдущую
	// подписку: у адаптера в любой момент не больше одного живого
	// соединения.
	Subscribe(symbol SymbolInfo, period Period, callback SubscribeCallback)

	// Отписка. Если symbol/period не совпадают с активной подпиской,
	// вызов ничего не делает.
	Unsubscribe(symbol SymbolInfo, period Period)
}

// колбэк получения новой свечи по подписке
type SubscribeCallback func(bar Bar)

package kfeed

import (
	"context"
	"sync"
	"time"
)

// SymbolCache — кеш списка инструментов с явным временем жизни.
// Список загружается лениво при первом обращении и перечитывается после
// истечения TTL или по Invalidate. TTL <= 0 отключает перечитывание.
type SymbolCache struct {
	loader func(ctx context.Context) ([]SymbolInfo, error)
	ttl    time.Duration

	lock     sync.Mutex
	symbols  []SymbolInfo
	loadedAt time.Time
}

func NewSymbolCache(ttl time.Duration, loader func(ctx context.Context) ([]SymbolInfo, error)) *SymbolCache {
	return &SymbolCache{
		loader: loader,
		ttl:    ttl,
	}
}

func (c *SymbolCache) Get(ctx context.Context) ([]SymbolInfo, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.symbols != nil && (c.ttl <= 0 || time.Since(c.loadedAt) < c.ttl) {
		return c.symbols, nil
	}
	symbols, err := c.loader(ctx)
	if err != nil {
		if c.symbols != nil {
			// при ошибке перечитывания отдаю прежний список
			return c.symbols, nil
		}
		return nil, err
	}
	c.symbols = symbols
	c.loadedAt = time.Now()
	return c.symbols, nil
}

func (c *SymbolCache) Invalidate() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.symbols = nil
}

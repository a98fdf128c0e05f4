package providers

// Закрытый набор провайдеров. Вариант на провайдера перечислен на этапе
// компиляции, никакого выбора поведения по строке внутри адаптеров нет.

import (
	"github.com/go-trading/kfeed"
	"github.com/go-trading/kfeed/local"
	"github.com/go-trading/kfeed/okx"
	"github.com/go-trading/kfeed/polygon"
	"github.com/go-trading/kfeed/replay"
)

const (
	Polygon = "polygon"
	OKX     = "okx"
	Local   = "local"
	Replay  = "replay"
)

type Config struct {
	APIKey  string // ключ API (нужен polygon)
	BaseURL string // REST-адрес, пустой — боевой адрес провайдера
	WSURL   string // адрес websocket, пустой — боевой адрес провайдера
	DataDir string // каталог с csv (нужен replay)
}

func New(name string, cfg Config) (kfeed.Datafeed, error) {
	switch name {
	case Polygon:
		return polygon.New(cfg.APIKey, cfg.BaseURL, cfg.WSURL), nil
	case OKX:
		return okx.New(cfg.BaseURL, cfg.WSURL), nil
	case Local:
		return local.New(cfg.BaseURL), nil
	case Replay:
		return replay.New(cfg.DataDir), nil
	default:
		return nil, &kfeed.UnsupportedProviderError{Name: name}
	}
}

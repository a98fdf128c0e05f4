package main

// описание аргументов командной строки

import (
	"time"

	"github.com/urfave/cli/v2"
)

var (
	providerFlag = &cli.StringFlag{
		Name:     "provider",
		Usage:    "Провайдер данных: polygon, okx, local, replay",
		Required: true,
		EnvVars:  []string{"KFEED_PROVIDER"},
	}
	apiKeyFlag = &cli.StringFlag{
		Name:    "api-key",
		Usage:   "Ключ API провайдера (нужен polygon)",
		EnvVars: []string{"KFEED_API_KEY"},
	}
	baseURLFlag = &cli.StringFlag{
		Name:    "base-url",
		Usage:   "REST-адрес провайдера (по умолчанию боевой)",
		EnvVars: []string{"KFEED_BASE_URL"},
	}
	wsURLFlag = &cli.StringFlag{
		Name:    "ws-url",
		Usage:   "Адрес websocket провайдера (по умолчанию боевой)",
		EnvVars: []string{"KFEED_WS_URL"},
	}
	tickerFlag = &cli.StringFlag{
		Name:     "ticker",
		Usage:    "Тикер инструмента",
		Required: true,
		EnvVars:  []string{"KFEED_TICKER"},
	}
	queryFlag = &cli.StringFlag{
		Name:  "query",
		Usage: "Строка поиска инструмента, пустая — весь список",
	}
	periodFlag = &cli.StringFlag{
		Name:    "period",
		Value:   "15m",
		Usage:   "Размер свечи: 1m, 15m, 4h, 1d, 1w, 1M, 1y",
		EnvVars: []string{"KFEED_PERIOD"},
	}
	dataFlag = &cli.PathFlag{
		Name:    "data",
		Value:   "./data/",
		Usage:   "Каталог, в котором хранятся скаченные свечи",
		EnvVars: []string{"KFEED_DATA"},
	}
	fromFlag = &cli.TimestampFlag{
		Name:    "from",
		Value:   cli.NewTimestamp(time.Now().AddDate(0, 0, -7)),
		Usage:   "Начало диапазона истории",
		Layout:  "2006-01-02T15:04",
		EnvVars: []string{"KFEED_FROM"},
	}
	toFlag = &cli.TimestampFlag{
		Name:    "to",
		Value:   cli.NewTimestamp(time.Now()),
		Usage:   "Конец диапазона истории",
		Layout:  "2006-01-02T15:04",
		EnvVars: []string{"KFEED_TO"},
	}
)

var connectionFlags = []cli.Flag{providerFlag, apiKeyFlag, baseURLFlag, wsURLFlag}

var globalFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:  "debug",
		Usage: "Включить отладочное логирование",
	},
	&cli.StringFlag{
		Name:  "monitoring",
		Usage: "Адрес, на котором поднять prometheus-метрики",
	},
}

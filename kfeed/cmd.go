package main

// В файле описаны все команды, доступные в командной строке

import (
	"github.com/urfave/cli/v2"
)

var commands = []*cli.Command{
	{
		Name:   "search",
		Usage:  "Найти инструменты провайдера",
		Action: search,
		Flags:  append(connectionFlags, queryFlag, dataFlag),
	}, {
		Name:   "load",
		Usage:  "Загрузка исторических свечей (скачать данные в csv)",
		Action: load,
		Flags:  append(connectionFlags, tickerFlag, periodFlag, fromFlag, toFlag, dataFlag),
	}, {
		Name:   "watch",
		Usage:  "Отслеживать свечи в режиме реального времени",
		Action: watch,
		Flags:  append(connectionFlags, tickerFlag, periodFlag, dataFlag),
	},
}

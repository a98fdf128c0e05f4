package main

// Инициация уровня логирования во всех пакетах

import (
	"go.uber.org/zap"

	"github.com/go-trading/kfeed"
	"github.com/go-trading/kfeed/local"
	"github.com/go-trading/kfeed/okx"
	"github.com/go-trading/kfeed/polygon"
	"github.com/go-trading/kfeed/replay"
	"github.com/go-trading/kfeed/stream"
)

var l *zap.Logger

func init() {
	logger, _ := zap.NewProduction()
	l = logger
}

func initDebugLogger() {
	logger, _ := zap.NewDevelopment()
	l = logger
	kfeed.SetLogger(l)
	stream.SetLogger(l)
	polygon.SetLogger(l)
	okx.SetLogger(l)
	local.SetLogger(l)
	replay.SetLogger(l)
}

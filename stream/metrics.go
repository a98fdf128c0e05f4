package stream

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	barsDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kfeed_bars_delivered",
	},
		[]string{"provider", "channel"},
	)
	wsFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kfeed_ws_failures",
		Help: "Обрывы и отказы потоковых соединений по провайдерам",
	},
		[]string{"provider"},
	)
)

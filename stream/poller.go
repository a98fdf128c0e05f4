package stream

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/go-trading/kfeed"
)

// FetchLatest возвращает самую свежую свечу канала. ok=false — новых
// данных нет.
type FetchLatest func(ctx context.Context, sinceMs int64) (bar kfeed.Bar, ok bool, err error)

// Poller эмулирует потоковую подписку периодическим опросом REST, когда
// провайдер не умеет websocket. Повторяющийся таймер с явной остановкой:
// Stop гарантированно завершает опрос, флагов «ещё нужен» нет.
type Poller struct {
	provider string
	interval time.Duration
	fetch    FetchLatest
	callback kfeed.SubscribeCallback

	stopOnce sync.Once
	stop     chan struct{}

	// время последней доставленной свечи: свеча с тем же или более
	// ранним временем повторно не доставляется
	lastTs int64
}

func NewPoller(provider string, interval time.Duration, fetch FetchLatest, callback kfeed.SubscribeCallback) *Poller {
	return &Poller{
		provider: provider,
		interval: interval,
		fetch:    fetch,
		callback: callback,
		stop:     make(chan struct{}),
	}
}

func (p *Poller) Start() {
	go p.loop()
}

func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.stop)
	})
}

func (p *Poller) loop() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			p.poll()
		}
	}
}

func (p *Poller) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), p.interval)
	defer cancel()

	bar, ok, err := p.fetch(ctx, p.lastTs)
	if err != nil {
		l.Warn("опрос последней свечи не удался",
			zap.String("provider", p.provider), zap.Error(err))
		return
	}
	if !ok || bar.Timestamp <= p.lastTs {
		return
	}
	p.lastTs = bar.Timestamp
	barsDelivered.WithLabelValues(p.provider, "poll").Inc()
	p.callback(bar)
}

// PollInterval подбирает период опроса по размеру свечи: минутные и более
// мелкие свечи опрашиваются не чаще раза в минуту, часовые — раз в пять
// минут, дневные и крупнее — раз в пятнадцать.
func PollInterval(period kfeed.Period) time.Duration {
	switch period.Timespan {
	case kfeed.SpanMinute:
		if d := period.Duration(); d < time.Minute {
			return d
		}
		return time.Minute
	case kfeed.SpanHour:
		return 5 * time.Minute
	default:
		return 15 * time.Minute
	}
}

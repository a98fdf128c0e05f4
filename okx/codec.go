package okx

// Потоковый протокол OKX: публичные свечи аутентификации не требуют,
// подписка уходит сразу после открытия соединения.

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/go-trading/kfeed"
	"github.com/go-trading/kfeed/stream"
)

var _ stream.Codec = (*codec)(nil)

type codec struct {
	wsURL string
}

type wsArg struct {
	Channel string `json:"channel"`
	InstID  string `json:"instId"`
}

type opFrame struct {
	Op   string  `json:"op"`
	Args []wsArg `json:"args"`
}

func (c *codec) URL() string {
	return c.wsURL
}

func (c *codec) AuthFrame() (interface{}, bool) {
	return nil, false
}

// splitChannel разбирает ключ канала "candle1m:BTC-USDT".
func splitChannel(channel string) wsArg {
	if idx := strings.Index(channel, ":"); idx >= 0 {
		return wsArg{Channel: channel[:idx], InstID: channel[idx+1:]}
	}
	return wsArg{Channel: channel}
}

func (c *codec) SubscribeFrame(channel string) interface{} {
	return opFrame{Op: "subscribe", Args: []wsArg{splitChannel(channel)}}
}

func (c *codec) UnsubscribeFrame(channel string) interface{} {
	return opFrame{Op: "unsubscribe", Args: []wsArg{splitChannel(channel)}}
}

type wsMessage struct {
	Event string     `json:"event"`
	Code  string     `json:"code"`
	Msg   string     `json:"msg"`
	Arg   wsArg      `json:"arg"`
	Data  [][]string `json:"data"`
}

func (c *codec) Decode(data []byte) (stream.Event, error) {
	var msg wsMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return stream.Event{}, &kfeed.UpstreamParseError{Provider: "okx", Err: err}
	}

	var result stream.Event
	switch msg.Event {
	case "error":
		l.Warn("ошибка потокового API",
			zap.String("code", msg.Code), zap.String("msg", msg.Msg))
		return result, nil
	case "subscribe", "unsubscribe":
		return result, nil
	}

	channel := msg.Arg.Channel + ":" + msg.Arg.InstID
	for _, record := range msg.Data {
		bar, err := parseCandle(record)
		if err != nil {
			l.Debug("пропускаю потоковую свечу", zap.Error(err))
			continue
		}
		if bar.Turnover == 0 {
			bar.Turnover = bar.Close * bar.Volume
		}
		result.Bars = append(result.Bars, stream.ChannelBar{
			Channel: channel,
			Bar:     bar,
		})
	}
	return result, nil
}

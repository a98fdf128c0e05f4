package polygon

// Потоковый протокол polygon: текстовые JSON-кадры, сначала кадр
// аутентификации, подписка только после подтверждения auth_success.

import (
	"encoding/json"

	"github.com/go-trading/kfeed"
	"github.com/go-trading/kfeed/stream"
)

var _ stream.Codec = (*codec)(nil)

type codec struct {
	wsURL  string
	apiKey string
}

type actionFrame struct {
	Action string `json:"action"`
	Params string `json:"params"`
}

func (c *codec) URL() string {
	return c.wsURL
}

func (c *codec) AuthFrame() (interface{}, bool) {
	return actionFrame{Action: "auth", Params: c.apiKey}, true
}

func (c *codec) SubscribeFrame(channel string) interface{} {
	return actionFrame{Action: "subscribe", Params: channel}
}

func (c *codec) UnsubscribeFrame(channel string) interface{} {
	return actionFrame{Action: "unsubscribe", Params: channel}
}

// входящий кадр: массив событий, тип различается полем ev
type wsEvent struct {
	Ev      string  `json:"ev"`
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Pair    string  `json:"pair"`
	Open    float64 `json:"o"`
	High    float64 `json:"h"`
	Low     float64 `json:"l"`
	Close   float64 `json:"c"`
	Volume  float64 `json:"v"`
	VWAP    float64 `json:"vw"`
	Start   int64   `json:"s"`
}

func (c *codec) Decode(data []byte) (stream.Event, error) {
	var events []wsEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return stream.Event{}, &kfeed.UpstreamParseError{Provider: "polygon", Err: err}
	}

	var result stream.Event
	for _, e := range events {
		switch e.Ev {
		case "status":
			switch e.Status {
			case "auth_success":
				result.AuthOK = true
			case "auth_failed", "auth_timeout":
				reason := e.Message
				if reason == "" {
					reason = e.Status
				}
				result.AuthErr = reason
			}
			// connected и success по подписке интереса не представляют
		case "XA":
			bar := kfeed.Bar{
				Timestamp: e.Start,
				Open:      e.Open,
				High:      e.High,
				Low:       e.Low,
				Close:     e.Close,
				Volume:    e.Volume,
			}
			if e.VWAP > 0 {
				bar.Turnover = e.VWAP * e.Volume
			} else {
				bar.Turnover = e.Close * e.Volume
			}
			result.Bars = append(result.Bars, stream.ChannelBar{
				Channel: "XA." + e.Pair,
				Bar:     bar,
			})
		}
	}
	return result, nil
}

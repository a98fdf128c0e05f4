package stream

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/go-trading/kfeed"
)

// состояние потокового соединения
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateAuthenticating
	StateSubscribed
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateSubscribed:
		return "subscribed"
	case StateClosing:
		return "closing"
	}
	return "unknown"
}

// свеча вместе с каналом, к которому она относится
type ChannelBar struct {
	Channel string
	Bar     kfeed.Bar
}

// событие, разобранное кодеком из входящего кадра
type Event struct {
	AuthOK  bool         // аутентификация подтверждена
	AuthErr string       // непустой — аутентификация отклонена
	Bars    []ChannelBar // свечи кадра
}

// Codec описывает провайдер-специфичную часть потокового протокола.
type Codec interface {
	URL() string
	// Кадр аутентификации. required=false — провайдер её не требует.
	AuthFrame() (frame interface{}, required bool)
	SubscribeFrame(channel string) interface{}
	UnsubscribeFrame(channel string) interface{}
	Decode(data []byte) (Event, error)
}

// отсрочка закрытия ещё открывающегося соединения при смене канала
const supersedeGrace = 200 * time.Millisecond

// Conn владеет единственным потоковым соединением адаптера.
// Переходы Idle -> Connecting -> Authenticating -> Subscribed -> Closing ->
// Idle происходят только по событиям open, auth-ack, message, error, close.
// Автоматического переподключения нет: после обрыва хост вызывает
// Subscribe заново (известное ограничение).
type Conn struct {
	provider string
	codec    Codec
	dialer   *websocket.Dialer

	lock     sync.Mutex
	state    State
	channel  string
	callback kfeed.SubscribeCallback
	ws       *websocket.Conn
	// поколение соединения: растёт на каждом новом подключении и
	// закрытии, устаревшие горутины по нему узнают, что они не нужны
	gen uint64
}

func NewConn(provider string, codec Codec) *Conn {
	return &Conn{
		provider: provider,
		codec:    codec,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

func (c *Conn) State() State {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.state
}

func (c *Conn) Channel() string {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.channel
}

// Subscribe переключает соединение на канал. Если канал не изменился и
// соединение живо, заменяется только колбэк — переподключение не нужно.
func (c *Conn) Subscribe(channel string, callback kfeed.SubscribeCallback) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if channel == c.channel &&
		(c.state == StateConnecting || c.state == StateAuthenticating || c.state == StateSubscribed) {
		c.callback = callback
		return
	}

	switch c.state {
	case StateSubscribed, StateClosing:
		c.closeWsLocked()
	case StateConnecting, StateAuthenticating:
		c.deferCloseLocked()
	}

	c.channel = channel
	c.callback = callback
	c.state = StateConnecting
	c.gen++
	go c.run(c.gen, channel)
}

// Unsubscribe закрывает подписку. Вызов с каналом, не совпадающим с
// активным, ничего не делает: запоздавшая отписка по уже заменённой
// подписке не должна рвать новое соединение.
func (c *Conn) Unsubscribe(channel string) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if channel != c.channel {
		l.Debug("отписка по неактивному каналу, пропускаю",
			zap.String("provider", c.provider),
			zap.String("channel", channel),
			zap.String("active", c.channel))
		return
	}
	if c.ws != nil && c.state == StateSubscribed {
		if err := c.ws.WriteJSON(c.codec.UnsubscribeFrame(channel)); err != nil {
			l.Debug("не смог отправить кадр отписки", zap.Error(err))
		}
	}
	c.closeWsLocked()
	c.state = StateIdle
	c.channel = ""
	c.callback = nil
	c.gen++
}

// Close рвёт соединение и сбрасывает состояние подписки.
func (c *Conn) Close() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.closeWsLocked()
	c.state = StateIdle
	c.channel = ""
	c.callback = nil
	c.gen++
}

func (c *Conn) closeWsLocked() {
	if c.ws == nil {
		return
	}
	c.state = StateClosing
	c.ws.Close()
	c.ws = nil
}

// deferCloseLocked откладывает закрытие ещё открывающегося соединения.
// Перед закрытием канал проверяется повторно: при быстрых повторных
// Subscribe он мог снова стать целевым, и тогда соединение ещё пригодится.
func (c *Conn) deferCloseLocked() {
	ws := c.ws // nil, если dial ещё не завершился
	oldChannel := c.channel
	c.ws = nil
	time.AfterFunc(supersedeGrace, func() {
		c.lock.Lock()
		defer c.lock.Unlock()
		if c.channel == oldChannel {
			return
		}
		if ws != nil {
			ws.Close()
		}
	})
}

func (c *Conn) run(gen uint64, channel string) {
	ws, _, err := c.dialer.Dial(c.codec.URL(), nil)
	if err != nil {
		wsFailures.WithLabelValues(c.provider).Inc()
		l.Error("не смог открыть потоковое соединение",
			zap.String("provider", c.provider),
			zap.String("channel", channel),
			zap.Error(err))
		c.lock.Lock()
		if gen == c.gen {
			c.state = StateIdle
		}
		c.lock.Unlock()
		return
	}

	c.lock.Lock()
	if gen != c.gen {
		// подписку уже сменили, это соединение никому не нужно
		c.lock.Unlock()
		ws.Close()
		return
	}
	c.ws = ws
	frame, needAuth := c.codec.AuthFrame()
	if needAuth {
		c.state = StateAuthenticating
	} else {
		c.state = StateSubscribed
		frame = c.codec.SubscribeFrame(channel)
	}
	c.lock.Unlock()

	if err := ws.WriteJSON(frame); err != nil {
		c.fail(gen, ws, err)
		return
	}
	c.readLoop(gen, ws)
}

func (c *Conn) readLoop(gen uint64, ws *websocket.Conn) {
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			c.fail(gen, ws, err)
			return
		}
		event, err := c.codec.Decode(data)
		if err != nil {
			l.Debug("пропускаю кадр, который не смог разобрать",
				zap.String("provider", c.provider), zap.Error(err))
			continue
		}
		if !c.dispatch(gen, ws, event) {
			return
		}
	}
}

// dispatch обрабатывает событие кадра. false — соединение устарело или
// закрыто, читать из него больше не нужно.
func (c *Conn) dispatch(gen uint64, ws *websocket.Conn, event Event) bool {
	c.lock.Lock()
	if gen != c.gen {
		c.lock.Unlock()
		ws.Close()
		return false
	}

	if event.AuthErr != "" {
		authErr := &kfeed.AuthenticationFailedError{Provider: c.provider, Reason: event.AuthErr}
		l.Error("потоковая аутентификация отклонена, живых обновлений не будет",
			zap.Error(authErr))
		wsFailures.WithLabelValues(c.provider).Inc()
		c.closeWsLocked()
		c.state = StateIdle
		c.gen++
		c.lock.Unlock()
		return false
	}

	if event.AuthOK && c.state == StateAuthenticating {
		c.state = StateSubscribed
		channel := c.channel
		c.lock.Unlock()
		if err := ws.WriteJSON(c.codec.SubscribeFrame(channel)); err != nil {
			c.fail(gen, ws, err)
			return false
		}
		return true
	}

	// кадры чужого канала отбрасываются молча: при смене подписки
	// провайдер какое-то время ещё шлёт старый канал
	callback := c.callback
	channel := c.channel
	deliver := c.state == StateSubscribed && callback != nil
	c.lock.Unlock()

	if !deliver {
		return true
	}
	for _, cb := range event.Bars {
		if cb.Channel != channel {
			continue
		}
		barsDelivered.WithLabelValues(c.provider, cb.Channel).Inc()
		callback(cb.Bar)
	}
	return true
}

func (c *Conn) fail(gen uint64, ws *websocket.Conn, err error) {
	ws.Close()
	c.lock.Lock()
	defer c.lock.Unlock()
	if gen != c.gen {
		return
	}
	wsFailures.WithLabelValues(c.provider).Inc()
	l.Warn("потоковое соединение оборвалось, переподключения не будет",
		zap.String("provider", c.provider),
		zap.String("channel", c.channel),
		zap.Error(err))
	c.ws = nil
	c.state = StateIdle
	c.gen++
}

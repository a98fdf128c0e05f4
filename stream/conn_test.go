package stream

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/go-trading/kfeed"
)

// тестовый кодек: кадры — плоский JSON, сервер отвечает теми же Event
type testCodec struct {
	url      string
	needAuth bool
	reject   bool
}

func (c *testCodec) URL() string { return c.url }

func (c *testCodec) AuthFrame() (interface{}, bool) {
	if !c.needAuth {
		return nil, false
	}
	key := "good"
	if c.reject {
		key = "bad"
	}
	return map[string]string{"op": "auth", "key": key}, true
}

func (c *testCodec) SubscribeFrame(channel string) interface{} {
	return map[string]string{"op": "subscribe", "channel": channel}
}

func (c *testCodec) UnsubscribeFrame(channel string) interface{} {
	return map[string]string{"op": "unsubscribe", "channel": channel}
}

func (c *testCodec) Decode(data []byte) (Event, error) {
	var event Event
	err := json.Unmarshal(data, &event)
	return event, err
}

// barTs сопоставляет каналу уникальное время свечи, чтобы в тестах было
// видно, чьи данные пришли
func barTs(channel string) int64 {
	if channel == "B" {
		return 2000
	}
	return 1000
}

func newBarServer(t *testing.T) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		for {
			var frame map[string]string
			if err := ws.ReadJSON(&frame); err != nil {
				return
			}
			switch frame["op"] {
			case "auth":
				if frame["key"] != "good" {
					ws.WriteJSON(Event{AuthErr: "invalid key"})
					return
				}
				if err := ws.WriteJSON(Event{AuthOK: true}); err != nil {
					return
				}
			case "subscribe":
				channel := frame["channel"]
				bar := kfeed.Bar{Timestamp: barTs(channel), Close: 1}
				for i := 0; i < 100; i++ {
					event := Event{Bars: []ChannelBar{{Channel: channel, Bar: bar}}}
					if err := ws.WriteJSON(event); err != nil {
						return
					}
					time.Sleep(10 * time.Millisecond)
				}
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

// счётчик доставленных свечей по каналам
type recorder struct {
	lock sync.Mutex
	bars map[int64]int
}

func newRecorder() *recorder {
	return &recorder{bars: map[int64]int{}}
}

func (r *recorder) callback(bar kfeed.Bar) {
	r.lock.Lock()
	r.bars[bar.Timestamp]++
	r.lock.Unlock()
}

func (r *recorder) count(ts int64) int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.bars[ts]
}

func (r *recorder) waitFor(t *testing.T, ts int64) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if r.count(ts) > 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("не дождался свечи канала с ts=%d", ts)
}

// Смена подписки во время открытия первого соединения: в итоге живёт
// только подписка на новый канал, свечи старого не доставляются.
func TestConn_ResubscribeDuringConnect(t *testing.T) {
	srv := newBarServer(t)
	defer srv.Close()

	conn := NewConn("test", &testCodec{url: wsURL(srv)})
	defer conn.Close()

	rec := newRecorder()
	conn.Subscribe("A", rec.callback)
	conn.Subscribe("B", rec.callback)

	rec.waitFor(t, barTs("B"))
	// даём устаревшему соединению шанс ошибиться
	time.Sleep(supersedeGrace + 100*time.Millisecond)

	if got := rec.count(barTs("A")); got != 0 {
		t.Errorf("пришло %d свечей отменённого канала A", got)
	}
	if state := conn.State(); state != StateSubscribed {
		t.Errorf("состояние %v, ожидал subscribed", state)
	}
	if channel := conn.Channel(); channel != "B" {
		t.Errorf("активный канал %q, ожидал B", channel)
	}
}

// Отписка с чужим ключом канала не должна рвать активную подписку.
func TestConn_UnsubscribeWrongChannel(t *testing.T) {
	srv := newBarServer(t)
	defer srv.Close()

	conn := NewConn("test", &testCodec{url: wsURL(srv)})
	defer conn.Close()

	rec := newRecorder()
	conn.Subscribe("A", rec.callback)
	rec.waitFor(t, barTs("A"))

	conn.Unsubscribe("B")
	if state := conn.State(); state != StateSubscribed {
		t.Fatalf("отписка по чужому каналу сменила состояние на %v", state)
	}

	before := rec.count(barTs("A"))
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) && rec.count(barTs("A")) == before {
		time.Sleep(5 * time.Millisecond)
	}
	if rec.count(barTs("A")) == before {
		t.Error("после отписки по чужому каналу свечи перестали приходить")
	}

	conn.Unsubscribe("A")
	if state := conn.State(); state != StateIdle {
		t.Errorf("после отписки состояние %v, ожидал idle", state)
	}
	if channel := conn.Channel(); channel != "" {
		t.Errorf("после отписки канал %q, ожидал пустой", channel)
	}
}

// Провайдер с аутентификацией: подписка уходит только после auth-ack.
func TestConn_AuthThenSubscribe(t *testing.T) {
	srv := newBarServer(t)
	defer srv.Close()

	conn := NewConn("test", &testCodec{url: wsURL(srv), needAuth: true})
	defer conn.Close()

	rec := newRecorder()
	conn.Subscribe("A", rec.callback)
	rec.waitFor(t, barTs("A"))

	if state := conn.State(); state != StateSubscribed {
		t.Errorf("состояние %v, ожидал subscribed", state)
	}
}

// Отклонённая аутентификация закрывает соединение, свечи не доставляются.
func TestConn_AuthRejected(t *testing.T) {
	srv := newBarServer(t)
	defer srv.Close()

	conn := NewConn("test", &testCodec{url: wsURL(srv), needAuth: true, reject: true})
	defer conn.Close()

	rec := newRecorder()
	conn.Subscribe("A", rec.callback)

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) && conn.State() != StateIdle {
		time.Sleep(5 * time.Millisecond)
	}
	if state := conn.State(); state != StateIdle {
		t.Fatalf("после отказа в аутентификации состояние %v, ожидал idle", state)
	}
	if got := rec.count(barTs("A")); got != 0 {
		t.Errorf("после отказа в аутентификации пришло %d свечей", got)
	}
}

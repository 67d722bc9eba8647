// Package stream 通过 WebSocket 向订阅者推送定价快照。
package stream

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"binomial-pricer/infrastructure/logger"
	"binomial-pricer/market"
	"binomial-pricer/pricing"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 8
)

// MarketView 快照中的市场参数。
type MarketView struct {
	Spot          float64 `json:"spot"`
	DownTick      float64 `json:"downTick"`
	UpTick        float64 `json:"upTick"`
	Rate          float64 `json:"rate"`
	UpProbability float64 `json:"upProbability"`
}

// QuoteView 价格以五位小数字符串输出；溢出时 Finite=false 且 Price 为 "NaN"/"+Inf"。
type QuoteView struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Contract string `json:"contract"`
	Expiry   int    `json:"expiry"`
	Price    string `json:"price"`
	Finite   bool   `json:"finite"`
}

// Snapshot 一次完整定价的结果。
type Snapshot struct {
	Seq    uint64      `json:"seq"`
	Ts     time.Time   `json:"ts"`
	Market MarketView  `json:"market"`
	Quotes []QuoteView `json:"quotes"`
}

// NewSnapshot 把定价结果转换为可序列化的快照。
func NewSnapshot(seq uint64, m market.Binomial, quotes []pricing.Quote) Snapshot {
	views := make([]QuoteView, 0, len(quotes))
	for _, q := range quotes {
		v := QuoteView{Name: q.Name, Kind: q.Kind, Contract: q.Contract, Expiry: q.Expiry}
		if d, ok := q.Rounded(); ok {
			v.Price = d.StringFixed(5)
			v.Finite = true
		} else {
			v.Price = fmt.Sprintf("%v", q.Price)
		}
		views = append(views, v)
	}
	return Snapshot{
		Seq: seq,
		Ts:  time.Now().UTC(),
		Market: MarketView{
			Spot:          m.Spot(),
			DownTick:      m.DownTick(),
			UpTick:        m.UpTick(),
			Rate:          m.Rate(),
			UpProbability: m.UpProbability(),
		},
		Quotes: views,
	}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub 维护订阅连接，新连接先收到最近一次快照。
// 慢消费者的缓冲满时丢弃该条消息，不阻塞发布方。
type Hub struct {
	log      *logger.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	last    []byte
	closed  bool
}

func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.NewNop()
	}
	return &Hub{
		log:     log,
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Publish 序列化并广播快照。
func (h *Hub) Publish(s Snapshot) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = raw
	for c := range h.clients {
		select {
		case c.send <- raw:
		default:
			h.log.Warn("stream client lagging, snapshot dropped")
		}
	}
	return nil
}

// Clients 当前连接数
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP 升级为 WebSocket 并注册订阅。
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.LogError(err, map[string]interface{}{"component": "stream", "action": "upgrade"})
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	if h.last != nil {
		c.send <- h.last
	}
	h.mu.Unlock()

	go h.writeLoop(c)
	h.readLoop(c)
}

// readLoop 只处理控制帧；读出错即视为断开。
func (h *Hub) readLoop(c *client) {
	defer h.remove(c)
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Close 断开全部订阅者，之后的连接直接拒绝。
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// Package stream pushes price batches to websocket clients.
package stream

import (
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/websocket"

	"github.com/polyfocus/polyfocus-bot/internal/metrics"
	"github.com/polyfocus/polyfocus-bot/internal/model"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Message types sent to clients.
const (
	TypeSnapshot = "snapshot"
	TypePrices   = "prices"
)

// Snapshotter provides the current price cache.
type Snapshotter interface {
	AllCached() map[string]model.PriceQuote
}

// Quote is the wire form of a price quote.
type Quote struct {
	Symbol     string    `json:"symbol"`
	PriceUSD   string    `json:"price_usd"`
	ObservedAt time.Time `json:"observed_at"`
	Error      string    `json:"error,omitempty"`
}

// Message is one websocket frame.
type Message struct {
	Type   string  `json:"type"`
	Quotes []Quote `json:"quotes"`
}

// NewMessage converts a batch to a message with quotes sorted by symbol.
func NewMessage(typ string, batch map[string]model.PriceQuote) Message {
	quotes := make([]Quote, 0, len(batch))
	for _, q := range batch {
		quotes = append(quotes, Quote{
			Symbol:     q.Symbol,
			PriceUSD:   q.PriceUSD.String(),
			ObservedAt: q.ObservedAt,
			Error:      q.Error,
		})
	}
	sort.Slice(quotes, func(i, j int) bool { return quotes[i].Symbol < quotes[j].Symbol })
	return Message{Type: typ, Quotes: quotes}
}

// Stream is a poller subscriber and an http.Handler serving /ws/prices.
type Stream struct {
	hub          *hub[Message]
	cache        Snapshotter
	upgrader     websocket.Upgrader
	clientBuffer int
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

// New creates a Stream. cache may be nil, in which case no snapshot is sent
// on connect.
func New(cache Snapshotter, clientBuffer int, m *metrics.Metrics, logger *slog.Logger) *Stream {
	if logger == nil {
		logger = slog.Default()
	}
	if clientBuffer <= 0 {
		clientBuffer = 16
	}
	return &Stream{
		hub:          newHub[Message](),
		cache:        cache,
		upgrader:     websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		clientBuffer: clientBuffer,
		logger:       logger,
		metrics:      m,
	}
}

// HandlePrices broadcasts a poll batch to every connected client.
func (s *Stream) HandlePrices(batch map[string]model.PriceQuote) error {
	if missed := s.hub.Broadcast(NewMessage(TypePrices, batch)); missed > 0 {
		s.logger.Debug("slow stream clients skipped a batch", "clients", missed)
	}
	return nil
}

// Clients returns the number of connected clients.
func (s *Stream) Clients() int {
	return s.hub.Len()
}

// ServeHTTP upgrades the connection, sends the cached snapshot, then
// forwards every batch until the client goes away.
func (s *Stream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	sub := s.hub.Subscribe(s.clientBuffer)
	defer s.hub.Unsubscribe(sub)

	s.metrics.StreamClientConnected(1)
	defer s.metrics.StreamClientConnected(-1)

	s.logger.Debug("stream client connected", "remote", r.RemoteAddr)

	if s.cache != nil {
		if err := s.write(conn, NewMessage(TypeSnapshot, s.cache.AllCached())); err != nil {
			return
		}
	}

	closed := make(chan struct{})
	go s.readPump(conn, closed)

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case msg, ok := <-sub.ch:
			if !ok {
				return
			}
			if err := s.write(conn, msg); err != nil {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Stream) write(conn *websocket.Conn, msg Message) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}

// readPump discards client frames so control frames are processed, and
// closes done when the connection fails.
func (s *Stream) readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

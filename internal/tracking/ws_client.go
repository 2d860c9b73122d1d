package tracking

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	wsReadDeadline = 60 * time.Second
	wsRedialDelay  = 2 * time.Second
)

// wsFrame is the wire format the landmark service pushes per frame.
// Missing detections arrive as absent or empty arrays.
type wsFrame struct {
	Face [][2]float64 `json:"face,omitempty"`
	Hand [][2]float64 `json:"hand,omitempty"`
}

// WSClient consumes per-frame landmark sets from an external tracking
// service over a websocket. A single reader goroutine delivers results, so
// callbacks never overlap.
type WSClient struct {
	url    string
	log    zerolog.Logger
	opts   Options
	onRes  func(Result)
	cancel context.CancelFunc

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewWSClient creates a client for the given websocket URL.
func NewWSClient(url string, log zerolog.Logger) *WSClient {
	return &WSClient{
		url: url,
		log: log.With().Str("component", "tracking").Logger(),
	}
}

// Configure records delivery filters. Must be called before Start.
func (c *WSClient) Configure(opts Options) error {
	c.opts = opts
	return nil
}

// OnResult registers the per-frame callback. Must be called before Start.
func (c *WSClient) OnResult(fn func(Result)) {
	c.onRes = fn
}

// Start dials the service and begins delivering frames until ctx ends. The
// initial dial failing is terminal; drops after that redial quietly.
func (c *WSClient) Start(ctx context.Context) error {
	if c.onRes == nil {
		return fmt.Errorf("tracking: no result callback registered")
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("%w: dial %s: %v", ErrUnavailable, c.url, err)
	}
	c.setConn(conn)

	ctx, c.cancel = context.WithCancel(ctx)
	go c.readLoop(ctx)
	c.log.Info().Str("url", c.url).Msg("tracking stream connected")
	return nil
}

// Close tears the connection down and stops delivery.
func (c *WSClient) Close() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}

func (c *WSClient) setConn(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
}

func (c *WSClient) readLoop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		conn := c.current()
		if conn == nil {
			if !c.redial(ctx) {
				return
			}
			continue
		}

		_ = conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Warn().Err(err).Msg("tracking stream dropped, redialing")
			_ = conn.Close()
			c.setConn(nil)
			continue
		}

		var frame wsFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			// Malformed frame: a transient signal gap, not an error.
			c.log.Debug().Err(err).Msg("discarding malformed tracking frame")
			continue
		}
		c.deliver(frame)
	}
}

func (c *WSClient) current() *websocket.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}

func (c *WSClient) redial(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(wsRedialDelay):
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		c.log.Debug().Err(err).Msg("tracking redial failed")
		return true
	}
	c.setConn(conn)
	c.log.Info().Msg("tracking stream reconnected")
	return true
}

func (c *WSClient) deliver(frame wsFrame) {
	res := Result{Timestamp: time.Now()}
	if len(frame.Face) >= c.opts.MinFacePoints && len(frame.Face) > 0 {
		res.Face = toVecs(frame.Face)
	}
	if len(frame.Hand) >= c.opts.MinHandPoints && len(frame.Hand) > 0 {
		res.Hand = toVecs(frame.Hand)
	}
	c.onRes(res)
}

func toVecs(points [][2]float64) []mgl64.Vec2 {
	out := make([]mgl64.Vec2, len(points))
	for i, p := range points {
		out[i] = mgl64.Vec2{p[0], p[1]}
	}
	return out
}

package connections

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// TimeoutConfig holds the various timeout settings for WebSocket connections
type TimeoutConfig struct {
	PongWait   time.Duration
	PingPeriod time.Duration
	WriteWait  time.Duration
}

// DefaultTimeouts provides sensible default timeout values
var DefaultTimeouts = TimeoutConfig{
	PongWait:   60 * time.Second,
	PingPeriod: 54 * time.Second, // (PongWait * 9) / 10
	WriteWait:  10 * time.Second,
}

// Info describes a live danmaku socket.
type Info struct {
	ID          string
	ConnectedAt time.Time
}

// Manager tracks live danmaku websocket connections
type Manager struct {
	connections sync.Map
	count       atomic.Int64
	timeouts    TimeoutConfig
}

func NewManager(timeouts TimeoutConfig) *Manager {
	return &Manager{
		timeouts: timeouts,
	}
}

// AddConnection registers a new WebSocket connection and returns its id
func (m *Manager) AddConnection(conn *websocket.Conn) string {
	info := Info{ID: uuid.New().String(), ConnectedAt: time.Now()}
	if _, loaded := m.connections.LoadOrStore(conn, info); loaded {
		existing, _ := m.connections.Load(conn)
		return existing.(Info).ID
	}
	m.count.Add(1)
	return info.ID
}

// RemoveConnection removes a WebSocket connection
func (m *Manager) RemoveConnection(conn *websocket.Conn) {
	if _, loaded := m.connections.LoadAndDelete(conn); loaded {
		m.count.Add(-1)
	}
}

// GetConnectionCount returns the current number of active connections
func (m *Manager) GetConnectionCount() int {
	return int(m.count.Load())
}

// GetConnection returns the bookkeeping for conn, if it is registered
func (m *Manager) GetConnection(conn *websocket.Conn) (Info, bool) {
	value, exists := m.connections.Load(conn)
	if !exists {
		return Info{}, false
	}
	return value.(Info), true
}

// GetTimeouts returns the current timeout configuration
func (m *Manager) GetTimeouts() TimeoutConfig {
	return m.timeouts
}

package http

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/fitpulse/showcase/internal/domain/entities"
	"github.com/fitpulse/showcase/internal/domain/ports"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 1024
)

// createUpgrader creates a WebSocket upgrader with origin validation
func (s *Server) createUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return s.isValidOrigin(r)
		},
	}
}

// WebSocketClient represents a connected landing page
type WebSocketClient struct {
	id     string
	conn   *websocket.Conn
	send   chan ports.UpdateEvent
	server *Server
	logger *HTTPLogger
}

// ClientMessage is the envelope for messages received from the page
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// frameReport is the page's per-frame measurement, sent from its
// animation loop together with the renderer's counters.
type frameReport struct {
	ElapsedMs      float64 `json:"elapsed_ms"`
	DrawCalls      int64   `json:"draw_calls"`
	Geometries     int64   `json:"geometries"`
	Textures       int64   `json:"textures"`
	AllocatedBytes int64   `json:"allocated_bytes"`
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := s.createUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("WebSocket upgrade failed: %v", err)
		return
	}

	client := &WebSocketClient{
		id:     uuid.New().String(),
		conn:   conn,
		send:   make(chan ports.UpdateEvent, 256),
		server: s,
		logger: s.logger,
	}

	s.connMgr.RegisterConnection(&Connection{
		ID:   client.id,
		Send: client.send,
	})

	go client.writePump()
	go client.readPump()

	// Send initial connection event
	event := ports.UpdateEvent{
		Type:      "connected",
		Timestamp: time.Now(),
		Data: map[string]string{
			"message": "Connected to showcase server",
		},
	}

	select {
	case client.send <- event:
	default:
		// Client's send channel is full
	}
}

// readPump pumps messages from the WebSocket connection
func (c *WebSocketClient) readPump() {
	defer func() {
		c.server.connMgr.Unregister(c.id)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket connection error: %v", err)
			}
			break
		}

		var clientMsg ClientMessage
		if err := json.Unmarshal(message, &clientMsg); err != nil {
			c.logger.Error("Failed to parse client message: %v", err)
			continue
		}

		switch clientMsg.Type {
		case "frame":
			c.handleFrameReport(clientMsg.Data)
		case "dismiss_notice":
			c.logger.Debug("Client %s dismissed the environment notice", c.id)
		default:
			c.logger.Debug("Unhandled message type %q from client %s", clientMsg.Type, c.id)
		}
	}
}

// handleFrameReport feeds a page frame measurement into the sampler and
// the counter source.
func (c *WebSocketClient) handleFrameReport(data json.RawMessage) {
	var report frameReport
	if err := json.Unmarshal(data, &report); err != nil {
		c.logger.Error("Failed to parse frame report: %v", err)
		return
	}

	c.server.counters.Report(entities.FrameCounters{
		DrawCalls:      report.DrawCalls,
		Geometries:     report.Geometries,
		Textures:       report.Textures,
		AllocatedBytes: report.AllocatedBytes,
	})

	// Negative and non-finite durations are dropped by the sampler.
	c.server.sampler.ObserveFrame(time.Duration(report.ElapsedMs * float64(time.Millisecond)))
}

// writePump pumps messages to the WebSocket connection
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The channel has been closed
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// isValidOrigin validates WebSocket connection origins
func (s *Server) isValidOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Allow empty origin (same-origin requests)
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		s.logger.Warn("WebSocket connection rejected: invalid origin URL %q: %v", origin, err)
		return false
	}

	if s.config.IsDevelopment() {
		return s.isDevelopmentOrigin(originURL)
	}

	return s.isProductionOrigin(originURL)
}

// isDevelopmentOrigin allows localhost and private network addresses
func (s *Server) isDevelopmentOrigin(originURL *url.URL) bool {
	hostname := originURL.Hostname()

	allowedHosts := []string{
		"localhost",
		"127.0.0.1",
		"0.0.0.0",
	}

	for _, allowed := range allowedHosts {
		if hostname == allowed {
			return true
		}
	}

	if strings.HasPrefix(hostname, "192.168.") ||
		strings.HasPrefix(hostname, "10.") ||
		isPrivateClassB(hostname) {
		return true
	}

	return false
}

// isProductionOrigin checks the configured whitelist
func (s *Server) isProductionOrigin(originURL *url.URL) bool {
	for _, allowedOrigin := range s.config.GetCORSOrigins() {
		if originURL.String() == allowedOrigin {
			return true
		}

		// Support wildcard subdomains (*.example.com)
		if strings.HasPrefix(allowedOrigin, "*.") {
			domain := strings.TrimPrefix(allowedOrigin, "*.")
			if strings.HasSuffix(originURL.Hostname(), domain) {
				return true
			}
		}
	}

	s.logger.Warn("WebSocket connection rejected: origin %s not in whitelist", originURL.String())
	return false
}

// isPrivateClassB checks for 172.16.0.0 to 172.31.255.255 range
func isPrivateClassB(hostname string) bool {
	if !strings.HasPrefix(hostname, "172.") {
		return false
	}

	parts := strings.Split(hostname, ".")
	if len(parts) < 2 {
		return false
	}

	switch parts[1] {
	case "16", "17", "18", "19", "20", "21", "22", "23", "24", "25", "26", "27", "28", "29", "30", "31":
		return true
	default:
		return false
	}
}

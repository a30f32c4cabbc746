package socket

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"evently/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// frame is the wire format for every server-emitted websocket message.
type frame struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Gateway upgrades inbound connections, authenticates them and registers
// the resulting channel. Unauthenticated connections are closed before
// registration.
type Gateway struct {
	Registry *Registry
	Logger   *zap.Logger

	// Resolve maps a bearer token to a participant ID. Defaults to the
	// auth-session cache resolver.
	Resolve func(ctx context.Context, token string) (string, error)

	upgrader websocket.Upgrader
}

func NewGateway(registry *Registry, logger *zap.Logger) *Gateway {
	return &Gateway{
		Registry: registry,
		Logger:   logger,
		Resolve:  utils.ResolveAuthToken,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Handle is the gin handler for the /ws endpoint. The token is carried in
// the "token" query parameter or an Authorization bearer header.
func (g *Gateway) Handle(c *gin.Context) {
	conn, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		g.Logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	token := c.Query("token")
	if token == "" {
		token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	}

	participantID, err := g.Resolve(c.Request.Context(), token)
	if err != nil || participantID == "" {
		g.Logger.Warn("websocket connection rejected", zap.Error(err))
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unauthorized"),
			time.Now().Add(time.Second))
		conn.Close()
		return
	}

	ch := &wsChannel{id: uuid.New().String(), conn: conn}
	g.Registry.Add(participantID, ch)

	if err := ch.Send("connected", gin.H{
		"participantId": participantID,
		"message":       "Connected successfully",
	}); err != nil {
		g.Logger.Warn("failed to send connected ack", zap.Error(err))
	}

	g.Logger.Info("websocket client connected",
		zap.String("participantId", participantID),
		zap.String("channelId", ch.ID()))

	g.readLoop(participantID, ch)
}

// readLoop drains inbound frames until the connection drops, answering pings.
func (g *Gateway) readLoop(participantID string, ch *wsChannel) {
	defer func() {
		g.Registry.Remove(participantID, ch.ID())
		ch.conn.Close()
		g.Logger.Info("websocket client disconnected",
			zap.String("participantId", participantID),
			zap.String("channelId", ch.ID()))
	}()

	for {
		var in frame
		if err := ch.conn.ReadJSON(&in); err != nil {
			return
		}
		if in.Event == "ping" {
			_ = ch.Send("pong", gin.H{"timestamp": time.Now().Format(time.RFC3339)})
		}
	}
}

// wsChannel wraps one websocket connection. Writes are serialized because
// fan-out and the read loop's pong replies run on different goroutines.
type wsChannel struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsChannel) ID() string { return c.id }

func (c *wsChannel) Send(event string, data any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(frame{Event: event, Data: data})
}

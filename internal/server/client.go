package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/api"
	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/logger"
)

// Настройки WebSocket
const (
	writeWait       = 10 * time.Second
	defaultPongWait = 60 * time.Second
	maxMessageSize  = 4096
)

var (
	errNoGenerator   = errors.New("no generator: send GENERATE first")
	errUnknownAction = errors.New("unknown action")
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и сессией генератора
type Client struct {
	Conn     *websocket.Conn
	Send     chan api.Frame
	Session  *Session
	sessions *Sessions

	// closed закрывается writePump при выходе, чтобы emit не блокировался навсегда.
	closed chan struct{}
	log    *logrus.Entry

	// pongWait - сколько ждать pong (и любое сообщение) до разрыва.
	pongWait time.Duration

	// RUN идет в своей горутине, чтобы readPump продолжал читать сокет.
	ctx       context.Context
	cancel    context.CancelFunc
	runMu     sync.Mutex
	runCancel context.CancelFunc
	runs      sync.WaitGroup
}

func NewClient(conn *websocket.Conn, sessions *Sessions) *Client {
	id := uuid.New().String()[0:8]
	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		Conn:     conn,
		Send:     make(chan api.Frame, 256),
		sessions: sessions,
		closed:   make(chan struct{}),
		log:      logger.Log.WithField("session_id", id),
		pongWait: defaultPongWait,
		ctx:      ctx,
		cancel:   cancel,
	}
	c.Session = NewSession(id, c.emit)
	return c
}

// emit ставит кадр в очередь на отправку. Если клиент медленный,
// генератор ждет: кадры не теряются.
func (c *Client) emit(f api.Frame) {
	select {
	case c.Send <- f:
	case <-c.closed:
	}
}

func (c *Client) sendError(err error) {
	c.emit(api.Frame{Type: api.FrameTypeError, Error: err.Error()})
}

// readPump читает команды от клиента и выполняет их в своей горутине
func (c *Client) readPump() {
	defer func() {
		// Send закрывается только после того, как RUN перестал слать кадры.
		c.cancel()
		c.runs.Wait()
		c.sessions.Unregister(c.Session.ID)
		close(c.Send)
		c.log.Info("Client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(c.pongWait)); err != nil {
			c.log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	c.sessions.Register(c.Session)
	c.log.Info("Client connected")

	for {
		var cmd api.ClientCommand
		err := c.Conn.ReadJSON(&cmd)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Errorf("WS Error: %v", err)
			}
			break
		}

		if err := c.handle(cmd); err != nil {
			c.log.WithError(err).WithField("action", cmd.Action).Debug("Command rejected")
			c.sendError(err)
		}
	}
}

func (c *Client) handle(cmd api.ClientCommand) error {
	switch cmd.Action {
	case api.ActionGenerate:
		var params api.GenerateParams
		if err := api.Decode(cmd, &params); err != nil {
			return err
		}
		// Незаконченный RUN не должен шагать новый генератор.
		c.stopRun()
		return c.Session.Generate(params)

	case api.ActionStep:
		var p api.StepPayload
		if err := api.Decode(cmd, &p); err != nil {
			return err
		}
		count := p.Count
		if count == 0 {
			count = 1
		}
		_, err := c.Session.Step(count)
		return err

	case api.ActionRun:
		var p api.RunPayload
		if err := api.Decode(cmd, &p); err != nil {
			return err
		}
		c.startRun(time.Duration(p.DelayMs) * time.Millisecond)
		return nil
	}
	return fmt.Errorf("%w: %q", errUnknownAction, cmd.Action)
}

// startRun запускает RUN в фоне, отменяя предыдущий.
func (c *Client) startRun(delay time.Duration) {
	c.runMu.Lock()
	defer c.runMu.Unlock()

	if c.runCancel != nil {
		c.runCancel()
	}
	ctx, cancel := context.WithCancel(c.ctx)
	c.runCancel = cancel

	c.runs.Add(1)
	go func() {
		defer c.runs.Done()
		defer cancel()

		err := c.Session.Run(ctx, delay)
		if err != nil && !errors.Is(err, context.Canceled) {
			c.log.WithError(err).Debug("Run failed")
			c.sendError(err)
		}
	}()
}

func (c *Client) stopRun() {
	c.runMu.Lock()
	defer c.runMu.Unlock()

	if c.runCancel != nil {
		c.runCancel()
		c.runCancel = nil
	}
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(c.pongWait * 9 / 10)
	defer func() {
		ticker.Stop()
		close(c.closed)
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				c.log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}

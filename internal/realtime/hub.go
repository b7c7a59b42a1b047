// Package realtime pushes domain events to connected POS screens over
// websockets and serves the few catalog commands those screens send back.
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"hygpos/internal/apierror"
	"hygpos/internal/dto"
	"hygpos/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 256
)

// Inbound commands.
const (
	CmdGetAllProducts = "getAllProducts"
	CmdCreateProduct  = "createProduct"
	CmdUpdateProduct  = "updateProduct"
)

// Broadcast by the server outside any catalog or order change.
const (
	EventRelayState = "relayState"
)

// Replies sent only to the requesting client.
const (
	ReplyAllProducts = "allProducts"
	ReplyError       = "error"
)

// ProductCommands is the slice of the catalog the screens may drive.
type ProductCommands interface {
	ListProducts(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	CreateProduct(ctx context.Context, req dto.ProductRequest) (*dto.ProductResponse, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req dto.ProductRequest) (*dto.ProductResponse, error)
}

// Message is the envelope for both directions.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type updateProductCommand struct {
	ID      string             `json:"id"      validate:"required,uuid"`
	Product dto.ProductRequest `json:"product"`
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub fans events out to every client. It satisfies service.EventPublisher.
type Hub struct {
	mu        sync.RWMutex
	clients   map[*client]struct{}
	broadcast chan []byte
	catalog   ProductCommands
	validate  *validator.Validate
	upgrader  websocket.Upgrader
}

func NewHub(catalog ProductCommands) *Hub {
	return &Hub{
		clients:   make(map[*client]struct{}),
		broadcast: make(chan []byte, sendBuffer),
		catalog:   catalog,
		validate:  validation.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// SetCatalog wires the command target after construction; the catalog
// service itself publishes through the hub.
func (h *Hub) SetCatalog(catalog ProductCommands) { h.catalog = catalog }

// Run delivers broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			return
		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// slow consumer
					delete(h.clients, c)
					close(c.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues an event for every connected client. It never blocks the
// caller; events are dropped when the hub is saturated.
func (h *Hub) Publish(event string, data interface{}) {
	msg, err := encode(event, data)
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("realtime: encode failed")
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		log.Warn().Str("event", event).Msg("realtime: broadcast queue full, event dropped")
	}
}

// ClientCount is reported by the health check.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades GET /ws.
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("realtime: upgrade failed")
		return
	}
	cl := &client{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()
	log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("realtime: client connected")

	go cl.writePump()
	go cl.readPump()
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// ── Inbound commands ─────────────────────────────────────────────────────────

// handle runs one inbound command and returns the direct reply, if any.
// Successful writes reach every client through the catalog's own events.
func (h *Hub) handle(ctx context.Context, msg Message) []byte {
	if h.catalog == nil {
		return replyError(apierror.Internal("catálogo no disponible", nil))
	}
	switch msg.Event {
	case CmdGetAllProducts:
		list, err := h.catalog.ListProducts(ctx, dto.ProductFilter{Page: 1, Limit: 500})
		if err != nil {
			return replyError(err)
		}
		out, _ := encode(ReplyAllProducts, list.Data)
		return out

	case CmdCreateProduct:
		var req dto.ProductRequest
		if err := h.decode(msg.Data, &req); err != nil {
			return replyError(err)
		}
		if _, err := h.catalog.CreateProduct(ctx, req); err != nil {
			return replyError(err)
		}
		return nil

	case CmdUpdateProduct:
		var cmd updateProductCommand
		if err := h.decode(msg.Data, &cmd); err != nil {
			return replyError(err)
		}
		if _, err := h.catalog.UpdateProduct(ctx, uuid.MustParse(cmd.ID), cmd.Product); err != nil {
			return replyError(err)
		}
		return nil

	default:
		return replyError(apierror.Validation("evento desconocido: " + msg.Event))
	}
}

func (h *Hub) decode(raw json.RawMessage, dst interface{}) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return apierror.Validation("payload inválido")
	}
	if err := h.validate.Struct(dst); err != nil {
		return apierror.Validation("payload inválido: " + err.Error())
	}
	return nil
}

func encode(event string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Event: event, Data: raw})
}

func replyError(err error) []byte {
	if apierror.KindOf(err) == apierror.KindInternal {
		log.Error().Err(err).Msg("realtime: command failed")
	}
	out, _ := encode(ReplyError, apierror.New(apierror.PublicMessage(err)))
	return out
}

// ── Pumps ────────────────────────────────────────────────────────────────────

func (c *client) readPump() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Msg("realtime: read failed")
			}
			return
		}
		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.reply(replyError(apierror.Validation("mensaje inválido")))
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		c.reply(c.hub.handle(ctx, msg))
		cancel()
	}
}

func (c *client) reply(msg []byte) {
	if msg == nil {
		return
	}
	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if _, ok := c.hub.clients[c]; !ok {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

func (c *client) writePump() {
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
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
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

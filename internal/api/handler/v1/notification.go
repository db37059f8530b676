package v1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/bazarkampus/bazar-api/internal/api/handler/v1/response"
	"github.com/bazarkampus/bazar-api/internal/domain"
	"github.com/bazarkampus/bazar-api/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust this for production!
	},
}

type streamClient struct {
	conn   *websocket.Conn
	send   chan []byte
	userID uint
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID uint, page, limit int) ([]domain.Notification, int64, error)
	MarkRead(ctx context.Context, id, userID uint) error
}

// NotificationHandler serves the notification read side and the live
// websocket stream. It implements service.Broadcaster.
type NotificationHandler struct {
	svc          NotificationService
	uSvc         UserService
	clients      map[uint]*streamClient
	clientsMutex sync.RWMutex
	register     chan *streamClient
	unregister   chan *streamClient
}

func NewNotificationHandler(svc NotificationService, uSvc UserService) *NotificationHandler {
	return &NotificationHandler{
		svc:        svc,
		uSvc:       uSvc,
		clients:    make(map[uint]*streamClient),
		register:   make(chan *streamClient),
		unregister: make(chan *streamClient),
	}
}

func (h *NotificationHandler) Run() {
	for {
		select {
		case client := <-h.register:
			h.clientsMutex.Lock()
			// A user opens at most one stream; a new connection displaces
			// the old one, whose write pump stops when its channel closes.
			if displaced, ok := h.clients[client.userID]; ok {
				close(displaced.send)
			}
			h.clients[client.userID] = client
			h.clientsMutex.Unlock()
		case client := <-h.unregister:
			h.clientsMutex.Lock()
			if current, ok := h.clients[client.userID]; ok && current == client {
				delete(h.clients, client.userID)
				close(client.send)
			}
			h.clientsMutex.Unlock()
		}
	}
}

// Push delivers a stored notification to its owner's connected client, if
// any. Slow clients are dropped rather than blocking the caller.
func (h *NotificationHandler) Push(notification domain.Notification) {
	payload, err := json.Marshal(notification)
	if err != nil {
		zap.L().Error("failed to marshal notification", zap.Error(err))
		return
	}

	h.clientsMutex.RLock()
	client, ok := h.clients[notification.UserID]
	h.clientsMutex.RUnlock()
	if !ok {
		return
	}

	select {
	case client.send <- payload:
	default:
		h.unregister <- client
	}
}

// HandleGetNotifications godoc
// @Summary      List own notifications
// @Tags         notifications
// @Produce      json
// @Param        page    query    int  false "page number"
// @Param        limit   query    int  false "page size"
// @Success      200 {object} response.Envelope
// @Failure      500 {object} response.Err
// @Router       /notifications [get]
// @Security BearerAuth
func (h *NotificationHandler) HandleGetNotifications(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	page, limit := parsePagination(ctx)

	notifications, total, err := h.svc.GetNotifications(ctx.Request.Context(), user.ID, page, limit)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetNotifications -> h.svc.GetNotifications -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	response.Paginated(ctx, notifications, page, limit, total)
}

// HandleMarkRead godoc
// @Summary      Mark a notification as read
// @Tags         notifications
// @Produce      json
// @Param        notificationID  path  int  true "notification ID"
// @Success      200 {object} response.Envelope
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /notifications/{notificationID}/read [post]
// @Security BearerAuth
func (h *NotificationHandler) HandleMarkRead(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	notificationID, respErr := parseIDParam(ctx, "notificationID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.MarkRead(ctx.Request.Context(), notificationID, user.ID); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("notification", "ID", notificationID))
			return
		}

		err = fmt.Errorf("v1.HandleMarkRead -> h.svc.MarkRead -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	response.OK(ctx, nil, "notifikasi ditandai terbaca")
}

// HandleStream godoc
// @Summary      Open the live notification stream
// @Description  Upgrades to a websocket; each notification created for the caller is pushed as a JSON message.
// @Tags         notifications
// @Produce      json
// @Success      101 {string} string "Switching Protocols to WebSocket"
// @Failure      401 {object} response.Err
// @Router       /notifications/stream [get]
// @Security BearerAuth
func (h *NotificationHandler) HandleStream(c *gin.Context) {
	user, respErr := getUserFromContext(c, h.uSvc)
	if respErr != nil {
		response.RenderErr(c, respErr)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Error("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &streamClient{
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: user.ID,
	}
	h.register <- client

	go client.writePump()
	go client.readPump(h)
}

func (c *streamClient) writePump() {
	defer func() {
		c.conn.Close()
	}()
	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)
		if err := w.Close(); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump discards inbound frames; the stream is push-only. It exists to
// notice the peer going away.
func (c *streamClient) readPump(h *NotificationHandler) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Debug("notification stream closed", zap.Error(err))
			}
			break
		}
	}
}

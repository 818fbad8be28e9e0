package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/isazadesabuhi/studxus-backend/internal/model"
	"github.com/isazadesabuhi/studxus-backend/internal/repository"
	"github.com/isazadesabuhi/studxus-backend/internal/ws"
)

// MessageHandler covers direct messaging: sending, the inbox view, reading a
// conversation and marking it read. New messages are pushed to the recipient
// over the WebSocket hub when they are connected.
type MessageHandler struct {
	Conversations *repository.ConversationRepo
	Messages      *repository.MessageRepo
	Users         *repository.UserRepo
	Hub           *ws.Hub
}

func NewMessageHandler(conv *repository.ConversationRepo, msg *repository.MessageRepo, users *repository.UserRepo, hub *ws.Hub) *MessageHandler {
	if conv == nil || msg == nil || users == nil {
		panic("nil repository passed to NewMessageHandler")
	}
	return &MessageHandler{Conversations: conv, Messages: msg, Users: users, Hub: hub}
}

type sendMessageReq struct {
	RecipientID uint64  `json:"recipient_id" validate:"required"`
	Message     string  `json:"message" validate:"required,max=5000"`
	Subject     *string `json:"subject,omitempty" validate:"omitempty,max=200"`
}

// SendMessage handles POST /v1/messages. Self-messaging is rejected; the
// conversation for the pair is created lazily on first contact.
func (h *MessageHandler) SendMessage(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req sendMessageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body", "details": err.Error()})
	}
	if req.RecipientID == userID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot message yourself"})
	}

	ctx := c.Request().Context()
	exists, err := h.Users.Exists(ctx, req.RecipientID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "recipient not found"})
	}

	conv, err := h.Conversations.GetOrCreate(ctx, userID, req.RecipientID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	msg := model.Message{
		ConversationID: conv.ID,
		SenderID:       userID,
		RecipientID:    req.RecipientID,
		Message:        req.Message,
		Subject:        req.Subject,
	}
	if err := h.Messages.Create(ctx, &msg); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "send message failed"})
	}
	_ = h.Conversations.TouchLastMessage(ctx, conv.ID, time.Now().UTC())

	if h.Hub != nil {
		h.Hub.Notify(req.RecipientID, ws.Event{Type: "message.new", Payload: msg})
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "message": msg})
}

// ListConversations handles GET /v1/messages: the caller's inbox, most
// recently active first, with unread counts.
func (h *MessageHandler) ListConversations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	conversations, err := h.Conversations.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "conversations": conversations, "count": len(conversations)})
}

// ListMessages handles GET /v1/messages/:id: a conversation's messages in
// chronological order, restricted to its two participants. Opening the
// conversation marks everything addressed to the caller as read.
func (h *MessageHandler) ListMessages(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	convID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid conversation id"})
	}
	ctx := c.Request().Context()
	conv, err := h.Conversations.GetByID(ctx, convID)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "conversation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if conv.UserAID != userID && conv.UserBID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant"})
	}
	messages, err := h.Messages.ListByConversation(ctx, convID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if _, err := h.Messages.MarkReadForRecipient(ctx, convID, userID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "messages": messages, "count": len(messages)})
}

// MarkRead handles PATCH /v1/messages/:id: flags the caller's unread
// messages in the conversation as read without returning the thread.
func (h *MessageHandler) MarkRead(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	convID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid conversation id"})
	}
	ctx := c.Request().Context()
	conv, err := h.Conversations.GetByID(ctx, convID)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "conversation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if conv.UserAID != userID && conv.UserBID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant"})
	}
	updated, err := h.Messages.MarkReadForRecipient(ctx, convID, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "updated": updated})
}

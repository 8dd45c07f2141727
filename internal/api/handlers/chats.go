package handlers

import (
	"net/http"

	"github.com/fundloop/fundloop/internal/service"
	"github.com/gin-gonic/gin"
)

// ChatHandler serves chats and their messages.
type ChatHandler struct {
	svc *service.Service
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(svc *service.Service) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// CreateChat godoc
// @Summary Start a chat
// @Tags chats
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body service.CreateChatRequest true "Chat"
// @Success 201 {object} models.Chat
// @Failure 403 {object} middleware.Envelope
// @Failure 404 {object} middleware.Envelope
// @Router /chats [post]
func (h *ChatHandler) CreateChat(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req service.CreateChatRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	chat, err := h.svc.CreateChat(c.Request.Context(), actor, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, chat)
}

// ListChats returns the chats the caller belongs to.
func (h *ChatHandler) ListChats(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		fail(c, err)
		return
	}
	page, err := bindPage(c)
	if err != nil {
		fail(c, err)
		return
	}

	chats, err := h.svc.ListChats(c.Request.Context(), actor, page)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, chats)
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		fail(c, err)
		return
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	page, err := bindPage(c)
	if err != nil {
		fail(c, err)
		return
	}

	messages, err := h.svc.ListMessages(c.Request.Context(), actor, id, page)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// PostMessage godoc
// @Summary Send a chat message
// @Tags chats
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Chat ID"
// @Param body body service.MessageRequest true "Message"
// @Success 201 {object} models.Message
// @Failure 403 {object} middleware.Envelope
// @Failure 404 {object} middleware.Envelope
// @Router /chats/{id}/messages [post]
func (h *ChatHandler) PostMessage(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		fail(c, err)
		return
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	var req service.MessageRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	message, err := h.svc.PostMessage(c.Request.Context(), actor, id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

// Package handler contains HTTP request handlers for the chat API.
//
// Handlers are the glue between HTTP and the services: they parse JSON
// bodies, call the service, and translate the result (or domain error) into
// a response. No business logic lives here.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/gossip/internal/model"
	"github.com/sakif/gossip/internal/service"
)

// ChatHandler exposes the three API operations: register-user, chat, and
// get-messages.
type ChatHandler struct {
	userService *service.UserService
	chatService *service.ChatService
	logger      *slog.Logger
}

func NewChatHandler(us *service.UserService, cs *service.ChatService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		userService: us,
		chatService: cs,
		logger:      logger,
	}
}

type registerUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type registerUserResponse struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// HandleRegisterUser registers a user in the messaging provider's registry
// and the local store.
//
// HTTP: POST /register-user
// REQUEST BODY: {"name": "Ada", "email": "ada@x.com"}
// RESPONSE 200: {"userId": "ada_x_com", "name": "Ada", "email": "ada@x.com"}
func (h *ChatHandler) HandleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid register-user JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid JSON body",
		})
		return
	}

	user, err := h.userService.Register(r.Context(), req.Name, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, registerUserResponse{
		UserID: user.UserID,
		Name:   user.Name,
		Email:  user.Email,
	})
}

type chatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// HandleChat runs one chat exchange and returns the model's reply.
//
// HTTP: POST /chat
// REQUEST BODY: {"message": "hi", "userId": "ada_x_com"}
// RESPONSE 200: {"reply": "hello"}
// ERRORS: 400 missing fields or unregistered-in-store, 404 unknown to the
// messaging provider, 500 anything downstream.
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid chat JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid JSON body",
		})
		return
	}

	reply, err := h.chatService.Send(r.Context(), req.UserID, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

type getMessagesRequest struct {
	UserID string `json:"userId"`
}

type getMessagesResponse struct {
	Messages []model.ChatTurn `json:"messages"`
}

// HandleGetMessages returns the full stored history for a user.
//
// HTTP: POST /get-messages
// REQUEST BODY: {"userId": "ada_x_com"}
// RESPONSE 200: {"messages": [{"id":1,"userId":"ada_x_com","message":"hi","reply":"hello",...}]}
//
// POST rather than GET because the wire contract takes the user ID in a
// JSON body, and the browser client is written against that shape.
func (h *ChatHandler) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	var req getMessagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid get-messages JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid JSON body",
		})
		return
	}

	turns, err := h.chatService.History(r.Context(), req.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, getMessagesResponse{Messages: turns})
}

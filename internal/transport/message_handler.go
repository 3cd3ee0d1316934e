package transport

import (
	"net/http"
	"time"

	"shopfront/internal/domain"
	"shopfront/internal/middleware"
	"shopfront/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContactRequest represents the contact form payload
type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Body    string `json:"body" validate:"required"`
}

// MessageHandler handles HTTP requests for contact messages
type MessageHandler struct {
	messageRepo repository.MessageRepository
	logger      *zap.Logger
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messageRepo repository.MessageRepository, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{
		messageRepo: messageRepo,
		logger:      logger,
	}
}

// RegisterRoutes registers all contact message routes
func (h *MessageHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Post("/api/contact", h.Submit)

	r.Route("/api/admin/messages", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminMiddleware)
		r.Get("/", h.List)
		r.Patch("/{id}/read", h.MarkRead)
		r.Delete("/{id}", h.Delete)
	})
}

// Submit handles a public contact form submission
func (h *MessageHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Contact validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	msg := &domain.ContactMessage{
		ID:        uuid.New(),
		Name:      req.Name,
		Email:     req.Email,
		Subject:   req.Subject,
		Body:      req.Body,
		CreatedAt: time.Now(),
	}

	if err := h.messageRepo.Create(r.Context(), msg); err != nil {
		h.logger.Error("Failed to store contact message", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to send message")
		return
	}

	h.logger.Info("Contact message received", zap.String("message_id", msg.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, map[string]string{"message": "message sent"})
}

// List returns contact messages for the admin inbox
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := queryInt(q.Get("page"), 1)
	limit := queryInt(q.Get("limit"), 20)

	messages, total, err := h.messageRepo.List(r.Context(), page, limit)
	if err != nil {
		h.logger.Error("Failed to list contact messages", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list messages")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"messages": messages,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// MarkRead marks a contact message as read
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid message ID")
		return
	}

	if err := h.messageRepo.MarkRead(r.Context(), id); err != nil {
		if err == repository.ErrMessageNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "message not found")
			return
		}
		h.logger.Error("Failed to mark message read", zap.Error(err), zap.String("message_id", id.String()))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update message")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "message marked read"})
}

// Delete removes a contact message
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid message ID")
		return
	}

	if err := h.messageRepo.Delete(r.Context(), id); err != nil {
		if err == repository.ErrMessageNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "message not found")
			return
		}
		h.logger.Error("Failed to delete message", zap.Error(err), zap.String("message_id", id.String()))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete message")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "message deleted"})
}

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

// OfferRequest represents the offer create/update payload
type OfferRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url"`
	DiscountPct float64    `json:"discount_pct" validate:"gte=0,lte=100"`
	StartsAt    time.Time  `json:"starts_at" validate:"required"`
	EndsAt      *time.Time `json:"ends_at"`
}

// OfferHandler handles HTTP requests for marketing offers
type OfferHandler struct {
	offerRepo repository.OfferRepository
	logger    *zap.Logger
}

// NewOfferHandler creates a new OfferHandler
func NewOfferHandler(offerRepo repository.OfferRepository, logger *zap.Logger) *OfferHandler {
	return &OfferHandler{
		offerRepo: offerRepo,
		logger:    logger,
	}
}

// RegisterRoutes registers all offer routes
func (h *OfferHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/offers", func(r chi.Router) {
		// Public routes
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(adminMiddleware)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// List returns offers, optionally only the currently active ones
func (h *OfferHandler) List(w http.ResponseWriter, r *http.Request) {
	offers, err := h.offerRepo.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list offers", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list offers")
		return
	}

	if activeOnly := queryBool(r.URL.Query().Get("active")); activeOnly != nil && *activeOnly {
		now := time.Now()
		active := make([]*domain.Offer, 0, len(offers))
		for _, offer := range offers {
			if offer.Active(now) {
				active = append(active, offer)
			}
		}
		offers = active
	}

	middleware.RespondWithJSON(w, http.StatusOK, offers)
}

// Get returns one offer
func (h *OfferHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid offer ID")
		return
	}

	offer, err := h.offerRepo.FindByID(r.Context(), id)
	if err != nil {
		if err == repository.ErrOfferNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "offer not found")
			return
		}
		h.logger.Error("Failed to get offer", zap.Error(err), zap.String("offer_id", id.String()))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get offer")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, offer)
}

// Create handles admin offer creation
func (h *OfferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req OfferRequest
	if !h.decodeOffer(w, r, &req) {
		return
	}

	offer := &domain.Offer{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		DiscountPct: req.DiscountPct,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		CreatedAt:   time.Now(),
	}

	if err := h.offerRepo.Create(r.Context(), offer); err != nil {
		h.logger.Error("Failed to create offer", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create offer")
		return
	}

	h.logger.Info("Offer created", zap.String("offer_id", offer.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, offer)
}

// Update handles admin offer updates
func (h *OfferHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid offer ID")
		return
	}

	var req OfferRequest
	if !h.decodeOffer(w, r, &req) {
		return
	}

	offer := &domain.Offer{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		DiscountPct: req.DiscountPct,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	}

	if err := h.offerRepo.Update(r.Context(), offer); err != nil {
		if err == repository.ErrOfferNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "offer not found")
			return
		}
		h.logger.Error("Failed to update offer", zap.Error(err), zap.String("offer_id", id.String()))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update offer")
		return
	}

	h.logger.Info("Offer updated", zap.String("offer_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, offer)
}

// Delete handles admin offer deletion
func (h *OfferHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid offer ID")
		return
	}

	if err := h.offerRepo.Delete(r.Context(), id); err != nil {
		if err == repository.ErrOfferNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "offer not found")
			return
		}
		h.logger.Error("Failed to delete offer", zap.Error(err), zap.String("offer_id", id.String()))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete offer")
		return
	}

	h.logger.Info("Offer deleted", zap.String("offer_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "offer deleted"})
}

func (h *OfferHandler) decodeOffer(w http.ResponseWriter, r *http.Request, req *OfferRequest) bool {
	if err := middleware.DecodeAndValidate(r, req); err != nil {
		h.logger.Debug("Offer validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

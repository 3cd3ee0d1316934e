package transport

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"shopfront/internal/catalog"
	"shopfront/internal/domain"
	"shopfront/internal/middleware"
	"shopfront/internal/pricing"
	"shopfront/internal/repository"
	"shopfront/internal/service"
	"shopfront/internal/share"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ItemRequest is the JSON payload of an admin create/update, carried in the
// "data" field of the multipart form alongside any image files.
type ItemRequest struct {
	Title              string           `json:"title" validate:"required"`
	Description        string           `json:"description"`
	Category           string           `json:"category" validate:"required"`
	Tags               []string         `json:"tags"`
	Brand              string           `json:"brand"`
	Price              float64          `json:"price" validate:"gte=0"`
	OriginalPrice      *float64         `json:"original_price" validate:"omitempty,gte=0"`
	DiscountPercentage *float64         `json:"discount_percentage" validate:"omitempty,gte=0,lte=100"`
	Variants           []VariantRequest `json:"variants"`
	Storage            *string          `json:"storage"`
	RAM                *string          `json:"ram"`
	Color              *string          `json:"color"`
	Model              *string          `json:"model"`
	Flags              FlagsRequest     `json:"flags"`
	Images             []string         `json:"images"`
}

// VariantRequest is one purchasable combination in an ItemRequest.
type VariantRequest struct {
	Storage          string  `json:"storage"`
	Memory           string  `json:"memory"`
	Network          string  `json:"network"`
	Price            float64 `json:"price" validate:"gte=0"`
	Deposit          float64 `json:"deposit" validate:"gte=0"`
	DailyInstallment float64 `json:"daily_installment" validate:"gte=0"`
}

// FlagsRequest mirrors the display-placement flags.
type FlagsRequest struct {
	Featured      bool `json:"featured"`
	SpecialOffer  bool `json:"special_offer"`
	CurvedDisplay bool `json:"curved_display"`
	Bestseller    bool `json:"bestseller"`
	FlashSale     bool `json:"flash_sale"`
	Limited       bool `json:"limited"`
	HotDeal       bool `json:"hot_deal"`
}

// ItemDetailResponse is the product page payload: the item plus its
// resolved price display and outbound share links.
type ItemDetailResponse struct {
	Item  *domain.CatalogItem `json:"item"`
	Price pricing.Display     `json:"price"`
	Share share.Links         `json:"share"`
}

// RelatedResponse is one ranked page of related items.
type RelatedResponse struct {
	Items    []catalog.ScoredCandidate `json:"items"`
	Page     int                       `json:"page"`
	HasMore  bool                      `json:"has_more"`
	NextPage int                       `json:"next_page"`
}

// CatalogHandler handles HTTP requests for catalog operations
type CatalogHandler struct {
	catalogService service.CatalogService
	formatter      pricing.Formatter
	siteBaseURL    string
	logger         *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService service.CatalogService, formatter pricing.Formatter, siteBaseURL string, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		formatter:      formatter,
		siteBaseURL:    siteBaseURL,
		logger:         logger,
	}
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		// Public routes
		r.Get("/", h.Browse)
		r.Get("/{id}", h.Get)
		r.Get("/{id}/related", h.Related)

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

// Browse lists the catalog with in-memory filtering, sorting and pagination
func (h *CatalogHandler) Browse(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	q := r.URL.Query()
	sortBy := catalog.SortField(q.Get("sort"))
	dir := catalog.SortDirection(q.Get("direction"))
	if dir == "" {
		dir = catalog.SortDesc
	}
	page := queryInt(q.Get("page"), 1)
	limit := queryInt(q.Get("limit"), 12)

	result, err := h.catalogService.Browse(r.Context(), criteria, sortBy, dir, page, limit)
	if err != nil {
		h.logger.Error("Failed to browse catalog", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load catalog")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// Get returns one item with price display and share links
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid item ID")
		return
	}

	item, err := h.catalogService.Get(r.Context(), id)
	if err != nil {
		if err == repository.ErrItemNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "item not found")
			return
		}
		h.logger.Error("Failed to get item", zap.Error(err), zap.String("item_id", id.String()))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get item")
		return
	}

	pageURL := h.siteBaseURL + "/products/" + item.ID.String()
	response := ItemDetailResponse{
		Item:  item,
		Price: pricing.Resolve(item, h.formatter),
		Share: share.Build(pageURL, item.Title),
	}

	middleware.RespondWithJSON(w, http.StatusOK, response)
}

// Related returns one ranked page of related items for load-more clients
func (h *CatalogHandler) Related(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid item ID")
		return
	}

	page := queryInt(r.URL.Query().Get("page"), 1)

	items, hasMore, err := h.catalogService.Related(r.Context(), id, page)
	if err != nil {
		if err == repository.ErrItemNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "item not found")
			return
		}
		h.logger.Error("Failed to load related items", zap.Error(err), zap.String("item_id", id.String()))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load related items")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, RelatedResponse{
		Items:    items,
		Page:     page,
		HasMore:  hasMore,
		NextPage: page + 1,
	})
}

// Create handles admin item creation with media uploads
func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	draft, uploads, closeFiles, ok := h.decodeItemForm(w, r)
	if !ok {
		return
	}
	defer closeFiles()

	item, err := h.catalogService.CreateItem(r.Context(), draft, uploads)
	if err != nil {
		h.logger.Error("Failed to create item", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	h.logger.Info("Item created", zap.String("item_id", item.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, item)
}

// Update handles admin item updates with media uploads
func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid item ID")
		return
	}

	draft, uploads, closeFiles, ok := h.decodeItemForm(w, r)
	if !ok {
		return
	}
	defer closeFiles()

	item, err := h.catalogService.UpdateItem(r.Context(), id, draft, uploads)
	if err != nil {
		if err == repository.ErrItemNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "item not found")
			return
		}
		h.logger.Error("Failed to update item", zap.Error(err), zap.String("item_id", id.String()))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	h.logger.Info("Item updated", zap.String("item_id", item.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, item)
}

// Delete handles admin item deletion
func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid item ID")
		return
	}

	if err := h.catalogService.DeleteItem(r.Context(), id); err != nil {
		if err == repository.ErrItemNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "item not found")
			return
		}
		h.logger.Error("Failed to delete item", zap.Error(err), zap.String("item_id", id.String()))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	h.logger.Info("Item deleted", zap.String("item_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

const maxUploadMemory = 32 << 20

// decodeItemForm parses the multipart admin form: a JSON "data" field plus
// zero or more "images" files. On failure it writes the error response and
// returns ok=false.
func (h *CatalogHandler) decodeItemForm(w http.ResponseWriter, r *http.Request) (service.ItemDraft, []service.Upload, func(), bool) {
	noop := func() {}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return service.ItemDraft{}, nil, noop, false
	}

	var req ItemRequest
	if err := json.Unmarshal([]byte(r.FormValue("data")), &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid item payload")
		return service.ItemDraft{}, nil, noop, false
	}

	if err := middleware.ValidateRequest(&req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return service.ItemDraft{}, nil, noop, false
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid item payload")
		return service.ItemDraft{}, nil, noop, false
	}

	var files []multipart.File
	var uploads []service.Upload
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["images"] {
			f, err := header.Open()
			if err != nil {
				for _, open := range files {
					open.Close()
				}
				middleware.RespondWithError(w, http.StatusBadRequest, "failed to read uploaded file")
				return service.ItemDraft{}, nil, noop, false
			}
			files = append(files, f)
			uploads = append(uploads, service.Upload{Filename: header.Filename, Reader: f})
		}
	}

	closeFiles := func() {
		for _, f := range files {
			f.Close()
		}
	}

	return requestToDraft(req), uploads, closeFiles, true
}

func requestToDraft(req ItemRequest) service.ItemDraft {
	draft := service.ItemDraft{
		Title:              req.Title,
		Description:        req.Description,
		Category:           req.Category,
		Tags:               req.Tags,
		Brand:              req.Brand,
		Price:              req.Price,
		OriginalPrice:      req.OriginalPrice,
		DiscountPercentage: req.DiscountPercentage,
		Storage:            req.Storage,
		RAM:                req.RAM,
		Color:              req.Color,
		Model:              req.Model,
		Images:             req.Images,
	}

	draft.Flags.Featured = req.Flags.Featured
	draft.Flags.SpecialOffer = req.Flags.SpecialOffer
	draft.Flags.CurvedDisplay = req.Flags.CurvedDisplay
	draft.Flags.Bestseller = req.Flags.Bestseller
	draft.Flags.FlashSale = req.Flags.FlashSale
	draft.Flags.Limited = req.Flags.Limited
	draft.Flags.HotDeal = req.Flags.HotDeal

	for _, v := range req.Variants {
		draft.Variants = append(draft.Variants, domainVariant(v))
	}

	return draft
}

func domainVariant(v VariantRequest) domain.Variant {
	return domain.Variant{
		Storage:          v.Storage,
		Memory:           v.Memory,
		Network:          v.Network,
		Price:            v.Price,
		Deposit:          v.Deposit,
		DailyInstallment: v.DailyInstallment,
	}
}

func parseCriteria(r *http.Request) (catalog.Criteria, error) {
	q := r.URL.Query()

	criteria := catalog.Criteria{
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		Brand:    q.Get("brand"),
		Search:   q.Get("search"),
	}

	if v := q.Get("published_from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return catalog.Criteria{}, err
		}
		criteria.PublishedFrom = &t
	}
	if v := q.Get("published_to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return catalog.Criteria{}, err
		}
		criteria.PublishedTo = &t
	}

	criteria.Featured = queryBool(q.Get("featured"))
	criteria.SpecialOffer = queryBool(q.Get("special_offer"))
	criteria.CurvedDisplay = queryBool(q.Get("curved_display"))
	criteria.Bestseller = queryBool(q.Get("bestseller"))
	criteria.FlashSale = queryBool(q.Get("flash_sale"))
	criteria.Limited = queryBool(q.Get("limited"))
	criteria.HotDeal = queryBool(q.Get("hot_deal"))

	return criteria, nil
}

func queryBool(v string) *bool {
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

func queryInt(v string, fallback int) int {
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

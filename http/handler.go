package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/binderhq/binder"
)

type Service interface {
	List(ctx context.Context, filter binder.ListFilter) ([]binder.Item, error)
	Get(ctx context.Context, id int64) (binder.Item, error)
	Create(ctx context.Context, in binder.CreateItem) (binder.CreateResult, error)
	Delete(ctx context.Context, id int64) error
	ListDeleted(ctx context.Context) ([]binder.Item, error)
	Restore(ctx context.Context, id int64) error
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type HandlerConfig struct {
	CORS CORSConfig
}

// Handler provides HTTP handlers for the document hierarchy.
type Handler struct {
	config  HandlerConfig
	service Service
}

// NewHandler creates a new Handler with the given configuration and service.
func NewHandler(config *HandlerConfig, service Service) *Handler {
	return &Handler{
		config:  *config,
		service: service,
	}
}

// Router returns the document routes. Callers mount it under
// /api/documents.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(RequestLogger)

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/bin", h.handleListDeleted)
	r.Get("/{id}", h.handleGet)
	r.Delete("/{id}", h.handleDelete)
	r.Patch("/{id}/restore", h.handleRestore)

	return r
}

// handleList serves the three listing shapes: root (no params), title
// search, and children of a parent. The query surface is an allowlist;
// anything else is rejected rather than silently ignored.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	for param := range query {
		if param != "title" && param != "parentId" {
			WriteError(w, http.StatusBadRequest, "Invalid query parameters entered")
			return
		}
	}

	title := query.Get("title")
	parentIDStr := query.Get("parentId")

	if title != "" && parentIDStr != "" {
		WriteError(w, http.StatusBadRequest, "Invalid query parameters entered")
		return
	}

	filter := binder.ListFilter{Title: title}
	if parentIDStr != "" {
		parentID, err := strconv.ParseInt(parentIDStr, 10, 64)
		if err != nil || parentID <= 0 {
			WriteError(w, http.StatusBadRequest, "Invalid parentId")
			return
		}
		filter.ParentID = &parentID
	}

	items, err := h.service.List(r.Context(), filter)
	if err != nil {
		if errors.Is(err, binder.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "No items found")
			return
		}
		HandleError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, Payload{Success: true, Data: items})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, binder.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Item not found")
			return
		}
		HandleError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, Payload{Success: true, Data: item})
}

type createRequest struct {
	Title      string   `json:"title"`
	ItemType   string   `json:"itemType"`
	ParentID   *int64   `json:"parentId"`
	FileSizeKB *float64 `json:"fileSizeKb"`
	CreatedBy  string   `json:"createdBy"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Title == "" || req.ItemType == "" {
		WriteError(w, http.StatusBadRequest, "Missing required fields: title and itemType")
		return
	}

	itemType, err := binder.ParseItemType(req.ItemType)
	if err != nil {
		WriteError(w, http.StatusBadRequest, `itemType must be either "folder" or "file"`)
		return
	}

	if req.ParentID != nil && *req.ParentID <= 0 {
		WriteError(w, http.StatusBadRequest, "parentId must be a positive number or null")
		return
	}

	result, err := h.service.Create(r.Context(), binder.CreateItem{
		Title:      req.Title,
		ItemType:   itemType,
		ParentID:   req.ParentID,
		FileSizeKB: req.FileSizeKB,
		CreatedBy:  req.CreatedBy,
	})
	if err != nil {
		HandleError(w, r, err)
		return
	}

	noun := "File"
	if itemType == binder.TypeFolder {
		noun = "Folder"
	}

	WriteJSON(w, http.StatusCreated, Payload{
		Success:   true,
		Message:   fmt.Sprintf("%s created successfully", noun),
		Data:      result.Item,
		UploadURL: result.UploadURL,
	})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, binder.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Item not found or already deleted")
			return
		}
		HandleError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, Payload{Success: true, Message: "Item deleted successfully"})
}

func (h *Handler) handleListDeleted(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListDeleted(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, Payload{Success: true, Data: items})
}

func (h *Handler) handleRestore(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Restore(r.Context(), id); err != nil {
		if errors.Is(err, binder.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Item not restored")
			return
		}
		HandleError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, Payload{Success: true, Message: "Item restored successfully"})
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, http.StatusBadRequest, "Invalid item ID")
		return 0, false
	}
	return id, true
}

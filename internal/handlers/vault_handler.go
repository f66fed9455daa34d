package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careervault/vault/internal/dtos"
	"github.com/careervault/vault/internal/gateway"
	"github.com/careervault/vault/internal/services"
)

// VaultHandler exposes the session's record views and mutations. Every route
// body is a call into the store or gateway; no domain logic lives here.
type VaultHandler struct {
	Store   *services.RecordStore
	Gateway gateway.SyncGateway
}

// NewVaultHandler creates the handler with dependencies
func NewVaultHandler(store *services.RecordStore, gw gateway.SyncGateway) *VaultHandler {
	return &VaultHandler{
		Store:   store,
		Gateway: gw,
	}
}

// respondError maps a classified error onto an HTTP status with an inline
// error envelope. Optimistic state has already been reverted by the store.
func respondError(c *gin.Context, err error) {
	status := http.StatusBadGateway
	var classified *gateway.Error
	if errors.As(err, &classified) {
		switch classified.Kind {
		case gateway.KindValidation:
			status = http.StatusBadRequest
		case gateway.KindRejected:
			status = http.StatusConflict
			if classified.Status != 0 {
				status = classified.Status
			}
		}
	}
	c.JSON(status, gin.H{
		"error": err.Error(),
		"kind":  string(gateway.KindOf(err)),
	})
}

// ListApplications is the GET /applications endpoint: the full collection in
// canonical order.
func (h *VaultHandler) ListApplications(c *gin.Context) {
	view := services.Project(h.Store.Snapshot(), dtos.SearchQuery{})
	c.JSON(http.StatusOK, view.All)
}

// Board is the GET /applications/board endpoint: records grouped by status.
func (h *VaultHandler) Board(c *gin.Context) {
	view := services.Project(h.Store.Snapshot(), dtos.SearchQuery{})
	c.JSON(http.StatusOK, view.ByStatus)
}

// Search is the GET /applications/search endpoint: records matching the
// query's sub-filters.
func (h *VaultHandler) Search(c *gin.Context) {
	var query dtos.SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}
	view := services.Project(h.Store.Snapshot(), query)
	c.JSON(http.StatusOK, view.Filtered)
}

// Insights is the GET /applications/insights endpoint: whole-vault counts.
func (h *VaultHandler) Insights(c *gin.Context) {
	view := services.Project(h.Store.Snapshot(), dtos.SearchQuery{})
	c.JSON(http.StatusOK, view.Aggregates)
}

// CreateApplication is the POST /applications endpoint.
func (h *VaultHandler) CreateApplication(c *gin.Context) {
	var draft dtos.ApplicationDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	record, err := h.Store.Create(c.Request.Context(), draft)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// EditApplication is the PATCH /applications/:id endpoint.
func (h *VaultHandler) EditApplication(c *gin.Context) {
	var patch dtos.RecordPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	if err := h.Store.Edit(c.Request.Context(), c.Param("id"), patch); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Application updated successfully."})
}

// SetStatus is the PATCH /applications/:id/status endpoint.
func (h *VaultHandler) SetStatus(c *gin.Context) {
	var req dtos.StatusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	if err := h.Store.SetStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated successfully."})
}

// DeleteApplication is the DELETE /applications/:id endpoint.
func (h *VaultHandler) DeleteApplication(c *gin.Context) {
	if err := h.Store.Remove(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Application deleted."})
}

// ParseURL is the POST /parse-url endpoint: best-effort extraction of draft
// fields from a job posting, delegated to the remote parser.
func (h *VaultHandler) ParseURL(c *gin.Context) {
	var req dtos.ParseURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	if req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No URL provided."})
		return
	}
	parsed, err := h.Gateway.ParseJobURL(c.Request.Context(), req.URL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, parsed)
}

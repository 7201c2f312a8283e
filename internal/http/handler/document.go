package handler

import (
	"net/http"
	"strconv"

	"cerebrin.app/backend/internal/http/dto"
	"cerebrin.app/backend/internal/model"
	"cerebrin.app/backend/internal/service"
	"cerebrin.app/backend/internal/store"
	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	guard     workspaceGuard
	documents service.DocumentService
}

func NewDocumentHandler(documents service.DocumentService, workspaces service.WorkspaceService) *DocumentHandler {
	return &DocumentHandler{
		guard:     workspaceGuard{workspaces: workspaces},
		documents: documents,
	}
}

func (h *DocumentHandler) Create(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleMember, model.ScopeWrite)
	if !ok {
		return
	}

	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: kind and title are required")
		return
	}

	doc, err := h.documents.Create(c.Request.Context(), service.CreateDocumentParams{
		WorkspaceID:     acc.WorkspaceID,
		Kind:            req.Kind,
		Title:           req.Title,
		Content:         req.Content,
		Status:          req.Status,
		CreatedByUserID: acc.UserID(),
	})
	if err != nil {
		respondError(c, err, "failed to create document")
		return
	}

	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
}

func (h *DocumentHandler) List(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleViewer, model.ScopeRead)
	if !ok {
		return
	}

	filter := store.DocumentFilter{}
	filter.Limit, filter.Offset = pagination(c)
	if raw := c.Query("kind"); raw != "" {
		kind := model.DocumentKind(raw)
		filter.Kind = &kind
	}
	if raw := c.Query("status"); raw != "" {
		status := model.DocumentStatus(raw)
		filter.Status = &status
	}

	docs, err := h.documents.List(c.Request.Context(), acc.WorkspaceID, filter)
	if err != nil {
		respondError(c, err, "failed to list documents")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponses(docs))
}

func (h *DocumentHandler) Search(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleViewer, model.ScopeRead)
	if !ok {
		return
	}

	var limit int32 = 20
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 32); err == nil && n > 0 {
			limit = int32(n)
		}
	}

	docs, err := h.documents.Search(c.Request.Context(), acc.WorkspaceID, c.Query("q"), limit)
	if err != nil {
		respondError(c, err, "failed to search documents")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponses(docs))
}

func (h *DocumentHandler) Get(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleViewer, model.ScopeRead)
	if !ok {
		return
	}
	docID, ok := parseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.documents.Get(c.Request.Context(), acc.WorkspaceID, docID)
	if err != nil {
		respondError(c, err, "failed to get document")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

func (h *DocumentHandler) Update(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleMember, model.ScopeWrite)
	if !ok {
		return
	}
	docID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	doc, err := h.documents.Update(c.Request.Context(), acc.WorkspaceID, docID, service.UpdateDocumentParams{
		Title:   req.Title,
		Content: req.Content,
		Status:  req.Status,
	})
	if err != nil {
		respondError(c, err, "failed to update document")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// Delete archives; documents are never hard deleted.
func (h *DocumentHandler) Delete(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleMember, model.ScopeWrite)
	if !ok {
		return
	}
	docID, ok := parseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.documents.Archive(c.Request.Context(), acc.WorkspaceID, docID)
	if err != nil {
		respondError(c, err, "failed to archive document")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet-api/internal/repository"
	"fleet-api/internal/service"
)

func (h *Handler) listDocuments(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	docs, err := h.documentService.List(c.Request.Context(), principal, repository.DocumentListFilter{
		OwnerType: c.Query("ownerType"),
		OwnerID:   c.Query("ownerId"),
		Type:      c.Query("type"),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, docs)
}

func (h *Handler) createDocument(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("file required"))
		return
	}
	if max := int64(h.cfg.HTTP.MaxUploadMB) << 20; max > 0 && fileHeader.Size > max {
		c.JSON(http.StatusRequestEntityTooLarge, errorResponse("file too large"))
		return
	}

	ownerType := c.PostForm("ownerType")
	ownerID := c.PostForm("ownerId")
	if ownerType == "" || ownerID == "" {
		c.JSON(http.StatusBadRequest, errorResponse("ownerType and ownerId required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.handleError(c, err)
		return
	}
	defer file.Close()

	input := service.CreateDocumentInput{
		Type:      c.PostForm("type"),
		OwnerType: ownerType,
		OwnerID:   ownerID,
		Filename:  fileHeader.Filename,
		File:      file,
	}
	if expiry := c.PostForm("expiry"); expiry != "" {
		input.Expiry = &expiry
	}
	if notes := c.PostForm("notes"); notes != "" {
		input.Notes = &notes
	}

	doc, err := h.documentService.Create(c.Request.Context(), principal, input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, doc)
}

func (h *Handler) deleteDocument(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), principal, c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// signUpload hands the browser a signed payload for direct-to-provider
// uploads, keeping large files off this API's request path.
func (h *Handler) signUpload(c *gin.Context) {
	if _, ok := h.principal(c); !ok {
		return
	}
	if h.blobs == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse("blob storage not configured"))
		return
	}

	signature, err := h.blobs.SignUpload()
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, signature)
}

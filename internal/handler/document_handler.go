package handler

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zchut-miluim/mentoring-api/internal/service"
	appErrors "github.com/zchut-miluim/mentoring-api/pkg/errors"
	"github.com/zchut-miluim/mentoring-api/pkg/response"
)

// DocumentHandler exposes document upload and signed download endpoints.
type DocumentHandler struct {
	documents *service.DocumentService
	metrics   *service.MetricsService
}

// NewDocumentHandler constructs DocumentHandler.
func NewDocumentHandler(documents *service.DocumentService, metrics *service.MetricsService) *DocumentHandler {
	return &DocumentHandler{documents: documents, metrics: metrics}
}

// Upload godoc
// @Summary Upload an approval document
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document file"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidInput, "file field is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, http.StatusBadRequest, "failed to read upload"))
		return
	}
	defer file.Close() //nolint:errcheck

	doc, err := h.documents.Upload(c.Request.Context(), claims.UserID, fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"), fileHeader.Size, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.CountDocumentUpload()
	response.Created(c, doc)
}

// Download godoc
// @Summary Download a document via its signed token
// @Tags Documents
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200
// @Router /documents/{token} [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	file, _, err := h.documents.Open(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	c.Header("Cache-Control", "no-store")
	http.ServeContent(c.Writer, c.Request, file.Name(), fileModTime(file), file)
}

func fileModTime(file *os.File) time.Time {
	info, err := file.Stat()
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// Refresh godoc
// @Summary Re-sign an expired download link
// @Tags Documents
// @Produce json
// @Param token path string true "Signed download token"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /documents/{token}/refresh [post]
func (h *DocumentHandler) Refresh(c *gin.Context) {
	token, expiresAt, err := h.documents.Refresh(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"signed_url": token, "expires_at": expiresAt}, nil)
}

// Delete godoc
// @Summary Delete a stored document
// @Tags Documents
// @Param token path string true "Signed download token"
// @Success 204
// @Security BearerAuth
// @Router /documents/{token} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.documents.Delete(c.Request.Context(), c.Param("token")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

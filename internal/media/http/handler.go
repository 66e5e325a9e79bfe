package http

import (
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/boat-rental-backend/internal/auth"
	"github.com/nekogravitycat/boat-rental-backend/internal/media"
	"github.com/nekogravitycat/boat-rental-backend/internal/pkg/response"
)

const formFieldName = "file"

type Handler struct {
	service media.Service
}

func NewHandler(service media.Service) *Handler {
	return &Handler{service: service}
}

// Upload stores a photo for a boat. Admin only.
func (h *Handler) Upload(c *gin.Context) {
	var uri BoatMediaURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	fileHeader, err := c.FormFile(formFieldName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formFieldName + " is required"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer src.Close()

	m, err := h.service.Upload(c.Request.Context(), media.UploadInput{
		BoatID:     uri.BoatID,
		UploaderID: auth.GetUserID(c),
		Filename:   filepath.Base(fileHeader.Filename),
		Content:    src,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewMediaResponse(m))
}

func (h *Handler) List(c *gin.Context) {
	var uri BoatMediaURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	items, err := h.service.ListByBoat(c.Request.Context(), uri.BoatID)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]MediaResponse, len(items))
	for i, m := range items {
		out[i] = NewMediaResponse(m)
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
}

// ServeFile streams the stored photo.
func (h *Handler) ServeFile(c *gin.Context) {
	var uri MediaURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	stream, m, err := h.service.Download(c.Request.Context(), uri.BoatID, uri.MediaID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Type", m.ContentType)
	c.Header("Content-Disposition", "inline; filename=\""+m.Filename+"\"")

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, stream); err != nil {
		log.Printf("failed to stream media %s: %v", m.ID, err)
	}
}

// ServeThumbnail streams the photo thumbnail.
func (h *Handler) ServeThumbnail(c *gin.Context) {
	var uri MediaURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	stream, m, err := h.service.DownloadThumbnail(c.Request.Context(), uri.BoatID, uri.MediaID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	// Thumbnails are always JPEG
	name := strings.TrimSuffix(m.Filename, filepath.Ext(m.Filename)) + "_thumb.jpg"
	c.Header("Content-Type", "image/jpeg")
	c.Header("Content-Disposition", "inline; filename=\""+name+"\"")

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, stream); err != nil {
		log.Printf("failed to stream thumbnail %s: %v", m.ID, err)
	}
}

func (h *Handler) Delete(c *gin.Context) {
	var uri MediaURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.BoatID, uri.MediaID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

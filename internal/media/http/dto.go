package http

import (
	"time"

	"github.com/nekogravitycat/boat-rental-backend/internal/media"
)

type BoatMediaURI struct {
	BoatID string `uri:"id" binding:"required,uuid"`
}

type MediaURI struct {
	BoatID  string `uri:"id" binding:"required,uuid"`
	MediaID string `uri:"media_id" binding:"required,uuid"`
}

type MediaResponse struct {
	ID           string    `json:"id"`
	BoatID       string    `json:"boat_id"`
	Filename     string    `json:"filename"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewMediaResponse(m *media.Media) MediaResponse {
	return MediaResponse{
		ID:           m.ID,
		BoatID:       m.BoatID,
		Filename:     m.Filename,
		ContentType:  m.ContentType,
		Size:         m.Size,
		URL:          media.URL(m),
		ThumbnailURL: media.ThumbnailURL(m),
		CreatedAt:    m.CreatedAt,
	}
}

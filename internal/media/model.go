package media

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/boat-rental-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.New(http.StatusNotFound, "media not found")
	ErrThumbnailNotFound   = apperror.New(http.StatusNotFound, "thumbnail not available for this media")
	ErrFileTooLarge        = apperror.New(http.StatusRequestEntityTooLarge, "file exceeds the maximum upload size")
	ErrUnsupportedType     = apperror.New(http.StatusUnsupportedMediaType, "unsupported media type")
	ErrInvalidImage        = apperror.New(http.StatusBadRequest, "file is not a valid image")
	ErrBoatMismatch        = apperror.New(http.StatusNotFound, "media does not belong to this boat")
	ErrStoredFileNotExists = apperror.New(http.StatusNotFound, "stored file is missing")
)

// DefaultAllowedTypes are the image formats accepted for boat photos.
var DefaultAllowedTypes = []string{"image/jpeg", "image/png"}

const (
	maxImageWidth   = 1600
	maxImageHeight  = 1600
	thumbnailWidth  = 320
	thumbnailHeight = 240
)

// Media is a photo attached to a boat.
type Media struct {
	ID            string
	BoatID        string
	UploadedBy    string
	Filename      string
	StoragePath   string
	ThumbnailPath *string
	ContentType   string
	Size          int64
	CreatedAt     time.Time
}

// URL returns the public URL serving the media content.
func URL(m *Media) string {
	return "/v1/boats/" + m.BoatID + "/media/" + m.ID
}

// ThumbnailURL returns the public URL of the media thumbnail, or nil when there is none.
func ThumbnailURL(m *Media) *string {
	if m.ThumbnailPath == nil {
		return nil
	}
	u := URL(m) + "/thumbnail"
	return &u
}

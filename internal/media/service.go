package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"slices"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/nekogravitycat/boat-rental-backend/internal/boat"
	"github.com/nekogravitycat/boat-rental-backend/internal/pkg/storage"
)

// BoatFinder looks up the boat a photo is attached to.
type BoatFinder interface {
	GetByID(ctx context.Context, id string) (*boat.Boat, error)
}

// UploadInput describes one uploaded photo.
type UploadInput struct {
	BoatID     string
	UploaderID string
	Filename   string
	Content    io.Reader
}

type Service interface {
	Upload(ctx context.Context, in UploadInput) (*Media, error)
	ListByBoat(ctx context.Context, boatID string) ([]*Media, error)
	Get(ctx context.Context, boatID, id string) (*Media, error)
	Download(ctx context.Context, boatID, id string) (io.ReadCloser, *Media, error)
	DownloadThumbnail(ctx context.Context, boatID, id string) (io.ReadCloser, *Media, error)
	Delete(ctx context.Context, boatID, id string) error
	DeleteByBoat(ctx context.Context, boatID string) error
}

type service struct {
	repo         Repository
	storage      storage.Storage
	boats        BoatFinder
	imgProc      *storage.ImageProcessor
	maxBytes     int64
	allowedTypes []string
	now          func() time.Time
}

// NewService creates a media Service. maxBytes <= 0 disables the size limit.
func NewService(repo Repository, store storage.Storage, boats BoatFinder, maxBytes int64) Service {
	return &service{
		repo:         repo,
		storage:      store,
		boats:        boats,
		imgProc:      storage.NewImageProcessor(),
		maxBytes:     maxBytes,
		allowedTypes: DefaultAllowedTypes,
		now:          time.Now,
	}
}

func (s *service) readLimited(content io.Reader) ([]byte, error) {
	if s.maxBytes <= 0 {
		return io.ReadAll(content)
	}
	data, err := io.ReadAll(io.LimitReader(content, s.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrFileTooLarge
	}
	return data, nil
}

func (s *service) Upload(ctx context.Context, in UploadInput) (*Media, error) {
	if _, err := s.boats.GetByID(ctx, in.BoatID); err != nil {
		return nil, err
	}

	raw, err := s.readLimited(in.Content)
	if err != nil {
		if errors.Is(err, ErrFileTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}

	// The declared Content-Type is ignored, only the bytes count.
	detected := mimetype.Detect(raw)
	if !slices.ContainsFunc(s.allowedTypes, detected.Is) {
		return nil, ErrUnsupportedType
	}

	// Photos are normalised to a bounded JPEG before they are stored.
	fitted, err := s.imgProc.Fit(bytes.NewReader(raw), maxImageWidth, maxImageHeight)
	if err != nil {
		return nil, ErrInvalidImage
	}
	content, err := io.ReadAll(fitted)
	if err != nil {
		return nil, fmt.Errorf("failed to buffer processed image: %w", err)
	}

	mediaID := uuid.New().String()

	// Sharding path: boats/<boat>/ab/<uuid>.jpg
	shard := mediaID[:2]
	storagePath := fmt.Sprintf("boats/%s/%s/%s.jpg", in.BoatID, shard, mediaID)

	if err := s.storage.Save(ctx, storagePath, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to save file to storage: %w", err)
	}

	var thumbnailPath *string
	thumb, err := s.imgProc.GenerateThumbnail(bytes.NewReader(content), thumbnailWidth, thumbnailHeight)
	if err != nil {
		log.Printf("thumbnail generation failed for media %s: %v", mediaID, err)
	} else {
		tPath := fmt.Sprintf("boats/%s/%s/%s_thumb.jpg", in.BoatID, shard, mediaID)
		if err := s.storage.Save(ctx, tPath, thumb); err != nil {
			log.Printf("failed to store thumbnail for media %s: %v", mediaID, err)
		} else {
			thumbnailPath = &tPath
		}
	}

	m := &Media{
		ID:            mediaID,
		BoatID:        in.BoatID,
		UploadedBy:    in.UploaderID,
		Filename:      in.Filename,
		StoragePath:   storagePath,
		ThumbnailPath: thumbnailPath,
		ContentType:   "image/jpeg",
		Size:          int64(len(content)),
		CreatedAt:     s.now().UTC(),
	}

	if err := s.repo.Create(ctx, m); err != nil {
		s.removeFiles(ctx, m)
		return nil, err
	}

	log.Printf("media %s uploaded for boat %s by %s", m.ID, m.BoatID, m.UploadedBy)
	return m, nil
}

// removeFiles deletes the stored objects of m. Failures are logged only.
func (s *service) removeFiles(ctx context.Context, m *Media) {
	if err := s.storage.Delete(ctx, m.StoragePath); err != nil {
		log.Printf("failed to delete stored file %s: %v", m.StoragePath, err)
	}
	if m.ThumbnailPath != nil {
		if err := s.storage.Delete(ctx, *m.ThumbnailPath); err != nil {
			log.Printf("failed to delete stored thumbnail %s: %v", *m.ThumbnailPath, err)
		}
	}
}

func (s *service) ListByBoat(ctx context.Context, boatID string) ([]*Media, error) {
	if _, err := s.boats.GetByID(ctx, boatID); err != nil {
		return nil, err
	}
	return s.repo.ListByBoat(ctx, boatID)
}

func (s *service) Get(ctx context.Context, boatID, id string) (*Media, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.BoatID != boatID {
		return nil, ErrBoatMismatch
	}
	return m, nil
}

func (s *service) open(ctx context.Context, path string) (io.ReadCloser, error) {
	stream, err := s.storage.Get(ctx, path)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, ErrStoredFileNotExists
		}
		return nil, fmt.Errorf("failed to retrieve file from storage: %w", err)
	}
	return stream, nil
}

func (s *service) Download(ctx context.Context, boatID, id string) (io.ReadCloser, *Media, error) {
	m, err := s.Get(ctx, boatID, id)
	if err != nil {
		return nil, nil, err
	}

	stream, err := s.open(ctx, m.StoragePath)
	if err != nil {
		return nil, nil, err
	}
	return stream, m, nil
}

func (s *service) DownloadThumbnail(ctx context.Context, boatID, id string) (io.ReadCloser, *Media, error) {
	m, err := s.Get(ctx, boatID, id)
	if err != nil {
		return nil, nil, err
	}
	if m.ThumbnailPath == nil {
		return nil, nil, ErrThumbnailNotFound
	}

	stream, err := s.open(ctx, *m.ThumbnailPath)
	if err != nil {
		return nil, nil, err
	}
	return stream, m, nil
}

func (s *service) Delete(ctx context.Context, boatID, id string) error {
	m, err := s.Get(ctx, boatID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.removeFiles(ctx, m)
	return nil
}

// DeleteByBoat drops every media row of a boat and then its stored files.
func (s *service) DeleteByBoat(ctx context.Context, boatID string) error {
	items, err := s.repo.ListByBoat(ctx, boatID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteByBoat(ctx, boatID); err != nil {
		return err
	}
	for _, m := range items {
		s.removeFiles(ctx, m)
	}
	return nil
}

package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "boats/b1/photo.jpg", strings.NewReader("hull")))

	rc, err := s.Get(ctx, "boats/b1/photo.jpg")
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "hull", string(got))

	require.NoError(t, s.Delete(ctx, "boats/b1/photo.jpg"))
	require.NoError(t, s.Delete(ctx, "boats/b1/photo.jpg"), "deleting twice is fine")

	_, err = s.Get(ctx, "boats/b1/photo.jpg")
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestLocalStorageRejectsEscapes(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	err = s.Save(context.Background(), "../outside.txt", strings.NewReader("x"))
	assert.Error(t, err)

	_, err = s.Get(context.Background(), "boats/../../etc/passwd")
	assert.Error(t, err)
}

func TestImageProcessor(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 200))
	for x := 0; x < 400; x++ {
		src.Set(x, 100, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	p := NewImageProcessor()

	fitted, err := p.Fit(bytes.NewReader(buf.Bytes()), 100, 100)
	require.NoError(t, err)
	img, format, err := image.Decode(fitted)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())

	thumb, err := p.GenerateThumbnail(bytes.NewReader(buf.Bytes()), 32, 32)
	require.NoError(t, err)
	img, _, err = image.Decode(thumb)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(32, 32), img.Bounds().Size())

	_, err = p.Fit(strings.NewReader("not an image"), 10, 10)
	assert.Error(t, err)
}

// Package poster downloads movie posters and checks that the bytes are an image.
package poster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // TMDb serves JPEG posters
	_ "image/png"
	"io"
	"net/url"
	"path"

	_ "golang.org/x/image/webp"
)

// MaxSize bounds how many bytes Download buffers
const MaxSize = 20 << 20

// ErrNotImage is returned when the downloaded bytes do not decode as an image
var ErrNotImage = errors.New("response is not a supported image")

// ErrTooLarge is returned when the poster exceeds MaxSize
var ErrTooLarge = errors.New("poster exceeds maximum size")

// Fetcher streams the body at a URL. *tmdb.Client implements it.
type Fetcher interface {
	FetchBytes(ctx context.Context, rawURL string) (io.ReadCloser, error)
}

// Info describes a downloaded poster
type Info struct {
	Format string
	Width  int
	Height int
	Size   int64
}

// Download fetches the poster at rawURL, checks that it decodes as an
// image and writes it to w. Nothing is written when the check fails.
func Download(ctx context.Context, f Fetcher, rawURL string, w io.Writer) (Info, error) {
	body, err := f.FetchBytes(ctx, rawURL)
	if err != nil {
		return Info{}, fmt.Errorf("failed to fetch poster: %w", err)
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, MaxSize+1))
	if err != nil {
		return Info{}, fmt.Errorf("failed to read poster: %w", err)
	}
	if len(data) > MaxSize {
		return Info{}, ErrTooLarge
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrNotImage, err)
	}

	n, err := w.Write(data)
	if err != nil {
		return Info{}, fmt.Errorf("failed to write poster: %w", err)
	}

	return Info{
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
		Size:   int64(n),
	}, nil
}

// FileName derives a local file name from a poster URL, falling back to
// poster.jpg when the URL has no usable path
func FileName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "poster.jpg"
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "poster.jpg"
	}
	return name
}

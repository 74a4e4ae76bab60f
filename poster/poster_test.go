package poster

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockFetcher serves fixed bytes and records requested URLs
type mockFetcher struct {
	data []byte
	err  error
	urls []string
}

func (m *mockFetcher) FetchBytes(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	m.urls = append(m.urls, rawURL)
	if m.err != nil {
		return nil, m.err
	}
	return io.NopCloser(bytes.NewReader(m.data)), nil
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{B: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func TestDownload(t *testing.T) {
	data := jpegBytes(t, 30, 45)
	fetcher := &mockFetcher{data: data}

	var out bytes.Buffer
	info, err := Download(context.Background(), fetcher, "https://image.tmdb.org/t/p/w500/abc.jpg", &out)
	require.NoError(t, err)

	assert.Equal(t, Info{Format: "jpeg", Width: 30, Height: 45, Size: int64(len(data))}, info)
	assert.Equal(t, data, out.Bytes())
	assert.Equal(t, []string{"https://image.tmdb.org/t/p/w500/abc.jpg"}, fetcher.urls)
}

func TestDownloadRejectsNonImage(t *testing.T) {
	fetcher := &mockFetcher{data: []byte("<html>not found</html>")}

	var out bytes.Buffer
	_, err := Download(context.Background(), fetcher, "https://example.com/x.jpg", &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotImage)
	assert.Zero(t, out.Len())
}

func TestDownloadPropagatesFetchError(t *testing.T) {
	fetchErr := errors.New("all 3 attempts failed")
	fetcher := &mockFetcher{err: fetchErr}

	_, err := Download(context.Background(), fetcher, "https://example.com/x.jpg", io.Discard)
	require.Error(t, err)
	assert.ErrorIs(t, err, fetchErr)
}

func TestDownloadTooLarge(t *testing.T) {
	fetcher := &mockFetcher{data: []byte(strings.Repeat("x", MaxSize+1))}

	_, err := Download(context.Background(), fetcher, "https://example.com/x.jpg", io.Discard)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestFileName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{url: "https://image.tmdb.org/t/p/w500/abc.jpg", want: "abc.jpg"},
		{url: "https://via.placeholder.com/300x450?text=No+Image", want: "300x450"},
		{url: "https://example.com/", want: "poster.jpg"},
		{url: "https://example.com", want: "poster.jpg"},
		{url: "http://[::1", want: "poster.jpg"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FileName(tt.url), tt.url)
	}
}

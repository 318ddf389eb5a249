package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
)

const (
	// DefaultLogoMaxBytes caps how much of a remote logo is read.
	DefaultLogoMaxBytes = 2 << 20
	// DefaultLogoHeight is the pixel height logos are resized to.
	DefaultLogoHeight = 120
)

// ErrLogoTooLarge is returned when a logo exceeds the size cap.
var ErrLogoTooLarge = errors.New("logo exceeds size limit")

// LogoFetcher downloads company logos and normalises them to PNG of a fixed height.
type LogoFetcher struct {
	Client   *http.Client
	MaxBytes int64
	Height   int
}

// NewLogoFetcher builds a fetcher with the default limits.
func NewLogoFetcher(client *http.Client) *LogoFetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &LogoFetcher{Client: client, MaxBytes: DefaultLogoMaxBytes, Height: DefaultLogoHeight}
}

// PNG fetches url and returns the resized logo as PNG bytes.
func (f *LogoFetcher) PNG(ctx context.Context, url string) ([]byte, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("logo request: %w", err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch logo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch logo: status %d", resp.StatusCode)
	}

	limit := f.MaxBytes
	if limit <= 0 {
		limit = DefaultLogoMaxBytes
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read logo: %w", err)
	}
	if int64(len(raw)) > limit {
		return nil, ErrLogoTooLarge
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode logo: %w", err)
	}
	height := f.Height
	if height <= 0 {
		height = DefaultLogoHeight
	}
	if img.Bounds().Dy() > height {
		img = imaging.Resize(img, 0, height, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode logo: %w", err)
	}
	return buf.Bytes(), nil
}

// fetchLogo returns nil when there is no fetcher or the logo cannot be used.
// A missing logo never fails a document.
func fetchLogo(ctx context.Context, f *LogoFetcher, url string) []byte {
	if f == nil || strings.TrimSpace(url) == "" {
		return nil
	}
	logo, err := f.PNG(ctx, url)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("logo_url", url).Msg("company logo skipped")
		return nil
	}
	return logo
}

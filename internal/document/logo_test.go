package document_test

import (
	"bytes"
	"context"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mirror-api/internal/document"
)

func TestLogoFetcherResizes(t *testing.T) {
	src := pngBytes(t, 600, 300)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(src)
	}))
	defer srv.Close()

	f := document.NewLogoFetcher(srv.Client())
	f.Height = 60
	out, err := f.PNG(context.Background(), srv.URL)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, 60, img.Bounds().Dy())
	require.Equal(t, 120, img.Bounds().Dx())
}

func TestLogoFetcherLimits(t *testing.T) {
	big := pngBytes(t, 64, 64)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(big)
	}))
	defer srv.Close()

	f := document.NewLogoFetcher(srv.Client())
	f.MaxBytes = 16
	_, err := f.PNG(context.Background(), srv.URL)
	require.ErrorIs(t, err, document.ErrLogoTooLarge)

	_, err = document.NewLogoFetcher(srv.Client()).PNG(context.Background(), srv.URL+"/missing")
	require.Error(t, err)

	out, err := f.PNG(context.Background(), " ")
	require.NoError(t, err)
	require.Nil(t, out)
}

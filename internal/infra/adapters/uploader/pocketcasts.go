// File: internal/infra/adapters/uploader/pocketcasts.go
package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"yt-podcast-bot/internal/config"
	"yt-podcast-bot/internal/domain"
	"yt-podcast-bot/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
)

var _ adapter.Uploader = (*PocketCasts)(nil)

// PocketCasts uploads into the "Files" section of a Pocket Casts account.
// The API hands out a pre-signed URL first, the audio is then PUT there.
type PocketCasts struct {
	baseURL     string
	contentType string
	api         *http.Client // upload request
	transfer    *http.Client // file bytes
	log         *zerolog.Logger
}

func NewPocketCasts(cfg config.UploaderConfig, logger *zerolog.Logger) *PocketCasts {
	l := logger.With().Str("component", "uploader").Logger()
	return &PocketCasts{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		contentType: cfg.ContentType,
		api:         &http.Client{Timeout: cfg.RequestTimeout},
		transfer:    &http.Client{Timeout: cfg.TransferTimeout},
		log:         &l,
	}
}

func (p *PocketCasts) Upload(ctx context.Context, token, title, path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUploadFailure, err)
	}

	dest, err := p.requestUpload(ctx, token, title, fi.Size())
	if err != nil {
		return err
	}
	if err := p.sendFile(ctx, dest, path, fi.Size()); err != nil {
		return err
	}
	p.log.Info().Str("title", title).Int64("bytes", fi.Size()).Msg("uploaded")
	return nil
}

type uploadRequest struct {
	ContentType    string `json:"contentType"`
	HasCustomImage bool   `json:"hasCustomImage"`
	Title          string `json:"title"`
	Size           int64  `json:"size"`
}

func (p *PocketCasts) requestUpload(ctx context.Context, token, title string, size int64) (string, error) {
	b, err := json.Marshal(uploadRequest{ContentType: p.contentType, Title: title, Size: size})
	if err != nil {
		return "", fmt.Errorf("%w: encode upload request: %w", domain.ErrUploadFailure, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/files/upload/request", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUploadFailure, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.api.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: upload request: %w", domain.ErrUploadFailure, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: upload request: status %d", domain.ErrUploadFailure, resp.StatusCode)
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode upload request: %w", domain.ErrUploadFailure, err)
	}
	if _, err := url.ParseRequestURI(out.URL); err != nil {
		return "", fmt.Errorf("%w: bad upload url %q", domain.ErrUploadFailure, out.URL)
	}
	return out.URL, nil
}

// sendFile streams the file. Only the status of this request decides success.
func (p *PocketCasts) sendFile(ctx context.Context, dest, path string, size int64) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUploadFailure, err)
	}
	defer f.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, dest, f)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUploadFailure, err)
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", p.contentType)

	resp, err := p.transfer.Do(req)
	if err != nil {
		return fmt.Errorf("%w: transfer: %w", domain.ErrUploadFailure, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: transfer: status %d", domain.ErrUploadFailure, resp.StatusCode)
	}
	return nil
}

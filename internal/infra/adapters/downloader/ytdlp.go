// File: internal/infra/adapters/downloader/ytdlp.go
package downloader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"yt-podcast-bot/internal/config"
	"yt-podcast-bot/internal/domain"
	"yt-podcast-bot/internal/domain/ports/adapter"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

var _ adapter.Downloader = (*YtDlp)(nil)

// YtDlp shells out to yt-dlp. Every download gets its own directory under the
// cache dir so concurrent workers never see each other's files.
type YtDlp struct {
	binary      string
	cacheDir    string
	audioFormat string
	log         *zerolog.Logger
}

func NewYtDlp(cfg config.DownloaderConfig, logger *zerolog.Logger) *YtDlp {
	l := logger.With().Str("component", "downloader").Logger()
	return &YtDlp{
		binary:      cfg.Binary,
		cacheDir:    cfg.CacheDir,
		audioFormat: cfg.AudioFormat,
		log:         &l,
	}
}

func (d *YtDlp) args(url string) []string {
	return []string{
		"--quiet",
		"--no-warnings",
		"--print", "after_move:filepath",
		"--no-simulate",
		"--format", "bestaudio",
		"--extract-audio",
		"--audio-format", d.audioFormat,
		"--add-metadata",
		"--embed-thumbnail",
		"--output", "%(channel)s - %(title)s.%(ext)s",
		// "--" keeps a link from being read as an option
		"--",
		url,
	}
}

// Download runs yt-dlp for url. The title is the output file name without
// its extension, i.e. "<channel> - <title>".
func (d *YtDlp) Download(ctx context.Context, url string) (*adapter.DownloadResult, error) {
	dir := filepath.Join(d.cacheDir, ulid.Make().String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create work dir: %w", domain.ErrDownloadFailure, err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, d.binary, d.args(url)...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	d.log.Debug().Str("url", url).Str("dir", dir).Msg("running yt-dlp")
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: yt-dlp: %w: %s", domain.ErrDownloadFailure, err, strings.TrimSpace(stderr.String()))
	}

	path := lastLine(stdout.String())
	if path == "" {
		return nil, fmt.Errorf("%w: yt-dlp printed no file path", domain.ErrDownloadFailure)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDownloadFailure, err)
	}

	base := filepath.Base(path)
	return &adapter.DownloadResult{
		Title: strings.TrimSuffix(base, filepath.Ext(base)),
		Path:  path,
		Dir:   dir,
	}, nil
}

// Release removes the work dir of a finished download. Dirs outside the
// cache dir are refused.
func (d *YtDlp) Release(res *adapter.DownloadResult) error {
	if res == nil || res.Dir == "" {
		return nil
	}
	rel, err := filepath.Rel(d.cacheDir, res.Dir)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") || strings.ContainsRune(rel, filepath.Separator) {
		return fmt.Errorf("%w: refusing to remove %q", domain.ErrDownloadFailure, res.Dir)
	}
	return os.RemoveAll(res.Dir)
}

// PurgeCache removes everything under the cache dir and returns how many
// entries were deleted. A missing cache dir counts as empty.
func (d *YtDlp) PurgeCache() (int, error) {
	entries, err := os.ReadDir(d.cacheDir)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(d.cacheDir, e.Name())); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// PruneOlderThan removes cache entries last modified before cutoff.
func (d *YtDlp) PruneOlderThan(cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(d.cacheDir)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(d.cacheDir, e.Name())); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

package adapter

import "context"

// DownloadResult describes a single audio file written to local disk.
type DownloadResult struct {
	Title string
	Path  string
	Dir   string // per-download work dir holding Path
}

// Downloader fetches the media behind a link and converts it to audio.
// It must not touch anything beyond the file location it writes to.
type Downloader interface {
	Download(ctx context.Context, url string) (*DownloadResult, error)
	// Release deletes what Download wrote for res.
	Release(res *DownloadResult) error
}

// Uploader pushes a local audio file to the user's storage account.
type Uploader interface {
	Upload(ctx context.Context, token, title, path string) error
}

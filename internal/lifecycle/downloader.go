package lifecycle

import "context"

// DownloadOptions parameterizes a Downloader.Fetch call (spec.md §4.E step
// 1: "invoke Downloader with (version, { cacheDir, downloadUrl,
// disallowDownload=!coreAgentDownload })").
type DownloadOptions struct {
	CacheDir         string
	DownloadURL      string
	DisallowDownload bool
}

// Downloader is the out-of-scope collaborator spec.md §1 names: "the core
// requires a Downloader capability with method fetch(version, options) ->
// local binary path." Binary download/verification itself is not part of
// this module.
type Downloader interface {
	Fetch(ctx context.Context, version string, opts DownloadOptions) (string, error)
}

package jsdk

import (
	"context"

	"github.com/quatton/jarvice/pkg/jsdk/jerr"
)

// Download copies src from a vault to the local path dst.
func (s *JobService) Download(ctx context.Context, src, dst, vault string) error {
	return jerr.NotImplemented("download")
}

// Upload copies the local path src to dst in a vault.
func (s *JobService) Upload(ctx context.Context, src, dst, vault string) error {
	return jerr.NotImplemented("upload")
}

// Ls lists remoteDir in a vault.
func (s *JobService) Ls(ctx context.Context, vault, remoteDir string) ([]string, error) {
	return nil, jerr.NotImplemented("ls")
}

package loader

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/robbyt/go-seval/internal/helpers"
)

// FromDisk reads the script body from a file each time a reader is requested.
type FromDisk struct {
	path      string
	sourceURL *url.URL
}

// NewFromDisk accepts an absolute path, with or without a file:// prefix.
func NewFromDisk(path string) (*FromDisk, error) {
	path = strings.TrimPrefix(path, "file://")

	if strings.Contains(path, "://") {
		return nil, fmt.Errorf("%w: %s", ErrSchemeUnsupported, path)
	}
	if !filepath.IsAbs(path) {
		return nil, fmt.Errorf("%w: relative paths are not supported", ErrScriptNotAvailable)
	}

	path = filepath.Clean(path)
	if path == "/" || path == `\` {
		return nil, fmt.Errorf("%w: path is empty or invalid", ErrScriptNotAvailable)
	}

	u := &url.URL{Scheme: "file", Path: filepath.ToSlash(path)}

	return &FromDisk{
		path:      path,
		sourceURL: u,
	}, nil
}

func (l *FromDisk) String() string {
	noChkSum := fmt.Sprintf("loader.FromDisk{Path: %s}", l.path)

	reader, err := l.GetReader()
	if err != nil {
		return noChkSum
	}
	defer func() { _ = reader.Close() }()

	chksum, err := helpers.SHA256Reader(reader)
	if err != nil {
		return noChkSum
	}
	return fmt.Sprintf("loader.FromDisk{Path: %s, SHA256: %s}", l.path, chksum[:8])
}

// GetReader opens the file. The caller closes it.
func (l *FromDisk) GetReader() (io.ReadCloser, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScriptNotAvailable, err)
	}
	return f, nil
}

// GetSourceURL returns the source URL of the script.
func (l *FromDisk) GetSourceURL() *url.URL {
	return l.sourceURL
}

// Package loader provides the sources a script body can be read from.
package loader

import (
	"io"
	"net/url"
)

// Loader is an interface used by the engines to load script bodies.
type Loader interface {
	GetReader() (io.ReadCloser, error)
	GetSourceURL() *url.URL
}

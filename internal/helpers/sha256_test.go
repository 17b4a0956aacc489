package helpers

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	emptyDigest = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	helloDigest = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
)

type errorReader struct{}

func (r *errorReader) Read(p []byte) (int, error) {
	return 0, errors.New("forced read error")
}

func TestSHA256(t *testing.T) {
	t.Parallel()

	require.Equal(t, emptyDigest, SHA256(""))
	require.Equal(t, helloDigest, SHA256("hello world"))
	require.Equal(t, helloDigest, SHA256Bytes([]byte("hello world")))
}

func TestSHA256Reader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   io.Reader
		want    string
		wantErr bool
	}{
		{name: "empty reader", input: strings.NewReader(""), want: emptyDigest},
		{name: "basic input", input: strings.NewReader("hello world"), want: helloDigest},
		{name: "read error", input: &errorReader{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SHA256Reader(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestShortID(t *testing.T) {
	t.Parallel()

	require.Equal(t, helloDigest[:12], ShortID("hello world", 12))
	require.Equal(t, helloDigest, ShortID("hello world", 0))
	require.Equal(t, helloDigest, ShortID("hello world", 1000))
}

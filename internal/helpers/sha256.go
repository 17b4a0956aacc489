package helpers

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// SHA256 returns the hex digest of a string.
func SHA256(input string) string {
	return SHA256Bytes([]byte(input))
}

// SHA256Bytes returns the hex digest of a byte slice.
func SHA256Bytes(input []byte) string {
	hash := sha256.Sum256(input)
	return hex.EncodeToString(hash[:])
}

// SHA256Reader returns the hex digest of everything read from reader.
func SHA256Reader(reader io.Reader) (string, error) {
	hash := sha256.New()
	if _, err := io.Copy(hash, reader); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// ShortID returns the first n hex characters of the digest of input, used to name
// executable units and inline sources.
func ShortID(input string, n int) string {
	sum := SHA256(input)
	if n <= 0 || n > len(sum) {
		return sum
	}
	return sum[:n]
}

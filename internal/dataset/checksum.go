package dataset

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/sha3"
)

// Checksum returns the hex-encoded SHA3-256 digest of data.
func Checksum(data []byte) string {
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ChecksumFile returns the hex-encoded SHA3-256 digest of the file at path.
func ChecksumFile(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // Dataset path is provided by the user
	if err != nil {
		return "", fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	h := sha3.New256()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash dataset: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

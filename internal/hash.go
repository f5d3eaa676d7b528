package internal

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"fmt"
	"hash"
	"image"
	"io"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/corona10/goimagehash"
)

// PerceptualHash computes a perceptual fingerprint for the image at path,
// rendered as 16 hex digits. Visually similar images yield identical or
// close values, so the result groups near-duplicates without being unique.
func PerceptualHash(path, method string) (string, error) {
	var hashFunc func(image.Image) (*goimagehash.ImageHash, error)
	switch method {
	case "average":
		hashFunc = goimagehash.AverageHash
	case "phash":
		hashFunc = goimagehash.PerceptionHash
	case "dhash":
		hashFunc = goimagehash.DifferenceHash
	default:
		return "", fmt.Errorf("unsupported hashing method: %s", method)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	imgHash, err := hashFunc(img)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%016x", imgHash.GetHash()), nil
}

// CryptoHash computes a streaming content digest of a file, hex encoded.
// Byte-identical files always produce the same value, making it the
// deduplication key.
func CryptoHash(path, algorithm string) (string, error) {
	var h hash.Hash
	switch algorithm {
	case "sha256":
		h = sha256.New()
	case "sha1":
		h = sha1.New()
	case "md5":
		h = md5.New()
	default:
		return "", fmt.Errorf("unsupported hashing algorithm: %s", algorithm)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// Hasher provides both hash identifiers for a file. The seam exists so
// tests and future media types can substitute providers.
type Hasher interface {
	Perceptual(path string) (string, error)
	Crypto(path string) (string, error)
}

type fileHasher struct {
	method    string
	algorithm string
}

// NewHasher returns the default image hasher configured with the
// repository's perceptual method and digest algorithm.
func NewHasher(cfg *Config) Hasher {
	return &fileHasher{method: cfg.HashMethod, algorithm: cfg.HashAlgorithm}
}

func (h *fileHasher) Perceptual(path string) (string, error) {
	return PerceptualHash(path, h.method)
}

func (h *fileHasher) Crypto(path string) (string, error) {
	return CryptoHash(path, h.algorithm)
}

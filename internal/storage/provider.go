// Package storage keeps article Markdown files on disk.
package storage

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/starford/sipekan/internal/models"
)

// Provider is the interface for content file operations. Paths are relative
// to the content root.
type Provider interface {
	// List returns metadata for every .md file under dir.
	List(dir string) ([]models.ContentFile, error)
	Read(path string) ([]byte, error)
	// Write replaces path atomically.
	Write(path string, content []byte) error
	Delete(path string) error
	Exists(path string) (bool, error)
}

// Checksum returns the hex-encoded SHA-256 digest of data.
func Checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

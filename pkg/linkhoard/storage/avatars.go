package storage

import (
	"bytes"
	"errors"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotJPEG  = errors.New("avatar must be a JPEG image")
	ErrTooLarge = errors.New("avatar must be at most 300x300 pixels")
	ErrTooBig   = errors.New("avatar file too large")
)

const (
	// MaxAvatarBytes bounds the upload size before decoding.
	MaxAvatarBytes = 1 << 20 // 1 MiB

	maxAvatarDim = 300
)

// AvatarStore writes avatar images to a local directory served as static
// files, playing the part of the blob-storage collaborator.
type AvatarStore struct {
	dir     string
	baseURL string // public prefix, ex: "http://localhost:8080/avatars"
}

// NewAvatarStore creates the store directory if needed.
func NewAvatarStore(dir, baseURL string) (*AvatarStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &AvatarStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir returns the directory backing the store.
func (s *AvatarStore) Dir() string {
	return s.dir
}

// Save validates and stores an avatar image, returning its public URL.
// Only JPEG images up to 300x300 pixels are accepted; validation happens
// before anything touches disk.
func (s *AvatarStore) Save(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxAvatarBytes+1))
	if err != nil {
		return "", err
	}
	if len(data) > MaxAvatarBytes {
		return "", ErrTooBig
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", ErrNotJPEG
	}
	if cfg.Width > maxAvatarDim || cfg.Height > maxAvatarDim {
		return "", ErrTooLarge
	}

	name := uuid.NewString() + ".jpg"
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", err
	}

	return s.PublicURL(name), nil
}

// PublicURL returns the URL under which a stored object is served.
func (s *AvatarStore) PublicURL(name string) string {
	return s.baseURL + "/" + name
}

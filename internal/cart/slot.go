package cart

import (
	"context"
	"errors"
	"os"
)

// Slot is the single named storage location holding the JSON-encoded cart.
// Read returns (nil, nil) when nothing has been persisted yet.
type Slot interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, payload []byte) error
}

// FileSlot persists the cart in one file on disk.
type FileSlot struct {
	path string
}

// NewFileSlot builds a slot backed by the given path.
func NewFileSlot(path string) (*FileSlot, error) {
	if path == "" {
		return nil, errors.New("slot path required")
	}
	return &FileSlot{path: path}, nil
}

func (s *FileSlot) Read(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *FileSlot) Write(ctx context.Context, payload []byte) error {
	return os.WriteFile(s.path, payload, 0o644)
}

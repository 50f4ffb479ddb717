package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/abhisek/todomon/internal/tasks"
)

// FileRepo stores one indented JSON document per user under dir.
type FileRepo struct {
	dir string
}

// NewFileRepo returns a FileRepo rooted at dir. The directory is created on
// the first save.
func NewFileRepo(dir string) *FileRepo {
	return &FileRepo{dir: dir}
}

// Path returns the save file location for username.
func (r *FileRepo) Path(username string) (string, error) {
	if err := ValidateUsername(username); err != nil {
		return "", err
	}
	return filepath.Join(r.dir, username+".json"), nil
}

// Save writes the save to a temp file in the same directory, syncs it and
// renames it over the previous save.
func (r *FileRepo) Save(ctx context.Context, username string, save UserSave) error {
	path, err := r.Path(username)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if save.Tasks == nil {
		save.Tasks = []tasks.Task{}
	}
	if err := save.Validate(); err != nil {
		return fmt.Errorf("refusing to save %s: %w", username, err)
	}

	data, err := json.MarshalIndent(save, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal save: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return &IOError{Op: "mkdir", Path: r.dir, Err: err}
	}
	return WriteFileAtomic(path, data)
}

// Load reads and validates the save for username.
func (r *FileRepo) Load(ctx context.Context, username string) (*UserSave, error) {
	path, err := r.Path(username)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, username)
	}
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}

	save, err := decodeSave(raw)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", username, err)
	}
	return save, nil
}

// WriteFileAtomic replaces path with data through a synced temp file in the
// same directory, so readers see either the old or the new content. Failures
// are *IOError and leave no temp file behind.
func WriteFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	cleanup := func() { os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return &IOError{Op: "write", Path: tmpName, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return &IOError{Op: "sync", Path: tmpName, Err: err}
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return &IOError{Op: "close", Path: tmpName, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return &IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}

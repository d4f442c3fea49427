package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"storefront/internal/domain"
)

var namespacePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,128}$`)

type fileRepo struct {
	dir string
}

// NewFile stores one JSON document per namespace under dir. Writes go through
// a temp file and a rename so a reader never observes half a record.
func NewFile(dir string) (Repository, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &fileRepo{dir: dir}, nil
}

func (r *fileRepo) path(namespace string) (string, error) {
	if !namespacePattern.MatchString(namespace) || namespace == "." || namespace == ".." {
		return "", fmt.Errorf("invalid session namespace %q", namespace)
	}
	return filepath.Join(r.dir, namespace+".json"), nil
}

func (r *fileRepo) Load(_ context.Context, namespace string) (*Record, error) {
	p, err := r.path(namespace)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	if validate(rec) != nil {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

func (r *fileRepo) Save(_ context.Context, namespace string, rec Record) error {
	if err := validate(rec); err != nil {
		return err
	}
	p, err := r.path(namespace)
	if err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(r.dir, namespace+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), p)
}

func (r *fileRepo) Delete(_ context.Context, namespace string) error {
	p, err := r.path(namespace)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

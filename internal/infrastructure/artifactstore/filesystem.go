// Package artifactstore keeps rendered receipts on a filesystem. The
// backing afero.Fs is injected, so tests run against an in-memory fs and
// the directory could move to a mounted object store without code changes.
package artifactstore

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/williamsclintwayne/YourBank-backend/internal/domain/artifact"
)

type Filesystem struct {
	fs  afero.Fs
	dir string
}

func NewFilesystem(fs afero.Fs, dir string) (*Filesystem, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &Filesystem{fs: fs, dir: dir}, nil
}

func (s *Filesystem) Put(ctx context.Context, name string, data []byte) error {
	if err := afero.WriteFile(s.fs, filepath.Join(s.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write artifact %s: %w", name, err)
	}
	return nil
}

func (s *Filesystem) Get(ctx context.Context, name string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", name, err)
	}
	return data, nil
}

func (s *Filesystem) Delete(ctx context.Context, name string) error {
	if err := s.fs.Remove(filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("delete artifact %s: %w", name, err)
	}
	return nil
}

func (s *Filesystem) List(ctx context.Context) ([]artifact.Info, error) {
	infos, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	out := make([]artifact.Info, 0, len(infos))
	for _, fi := range infos {
		if fi.IsDir() {
			continue
		}
		out = append(out, artifact.Info{Name: fi.Name(), ModTime: fi.ModTime()})
	}
	return out, nil
}

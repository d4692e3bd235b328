package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStorage keeps resource blobs on disk keyed by resource ID, sharded
// into two levels of prefix directories to keep directory sizes bounded.
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, err
	}
	return &LocalStorage{basePath: basePath}, nil
}

func (ls *LocalStorage) pathFor(id string) string {
	if len(id) < 4 {
		return filepath.Join(ls.basePath, id)
	}
	return filepath.Join(ls.basePath, id[:2], id[2:4], id)
}

func (ls *LocalStorage) Save(id string, data io.Reader) (int64, error) {
	filePath := ls.pathFor(id)

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return 0, err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	return io.Copy(file, data)
}

func (ls *LocalStorage) Get(id string) (io.ReadCloser, error) {
	file, err := os.Open(ls.pathFor(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("blob with id %s not found: %w", id, err)
		}
		return nil, err
	}

	return file, nil
}

func (ls *LocalStorage) Size(id string) (int64, error) {
	info, err := os.Stat(ls.pathFor(id))
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (ls *LocalStorage) Delete(id string) error {
	err := os.Remove(ls.pathFor(id))
	if os.IsNotExist(err) {
		return nil
	}

	return err
}

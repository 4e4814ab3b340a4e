package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// AttachmentStore は添付ファイル本体の保存先インターフェース。
type AttachmentStore interface {
	// Save はファイル内容を保存し、保存名と書き込んだバイト数を返す。
	Save(ctx context.Context, content io.Reader, fileName string) (storedName string, size int64, err error)
	// Remove は保存済みファイルを削除する。
	Remove(ctx context.Context, storedName string) error
}

// DiskStore はローカルファイルシステム上の添付ファイル保存。
// 保存名は元のファイル名と無関係なUUIDにし、パストラバーサルを構造的に防ぐ。
type DiskStore struct {
	dir string
}

// NewDiskStore は保存ディレクトリを作成してDiskStoreを生成する。
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Save はファイル内容をUUIDベースの保存名で書き込む。
// 拡張子だけを元のファイル名から引き継ぐ。
func (s *DiskStore) Save(ctx context.Context, content io.Reader, fileName string) (string, int64, error) {
	ext := filepath.Ext(filepath.Base(fileName))
	storedName := uuid.New().String() + ext

	f, err := os.OpenFile(filepath.Join(s.dir, storedName), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create attachment file: %w", err)
	}

	size, err := io.Copy(f, content)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(filepath.Join(s.dir, storedName))
		return "", 0, fmt.Errorf("failed to write attachment file: %w", err)
	}

	return storedName, size, nil
}

// Remove は保存済みファイルを削除する。
// 保存名のディレクトリ成分は無視する。
func (s *DiskStore) Remove(ctx context.Context, storedName string) error {
	if err := os.Remove(filepath.Join(s.dir, filepath.Base(storedName))); err != nil {
		return fmt.Errorf("failed to remove attachment file: %w", err)
	}
	return nil
}

// compile-time interface check
var _ AttachmentStore = (*DiskStore)(nil)

package history

import (
	"os"
	"path/filepath"

	"github.com/kakkky/lispsole/errs"
	"github.com/kakkky/lispsole/logutil"
)

var logger = logutil.GetLogger("[history] ")

// Backend は履歴の保存形式を表す
type Backend string

const (
	BackendFile Backend = "file"
	BackendBolt Backend = "bolt"
)

// Store は受理された入力の履歴を保存する
//
//go:generate mockgen -package=history -source=./store.go -destination=./store_mock.go
type Store interface {
	// Load は新しいものから最大limit件を古い順に並べて返す。limitが0以下なら全件を返す
	Load(limit int) ([]string, error)
	// Append は入力を履歴の末尾に追加する
	Append(entry string) error
	Close() error
}

// Open はbackendに応じたStoreを開く。pathが空の場合は既定の場所を使う
func Open(backend Backend, path string) (Store, error) {
	if path == "" {
		p, err := DefaultPath(backend)
		if err != nil {
			return nil, err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errs.NewInternalError("failed to create history directory").Wrap(err)
	}
	logger.Printf("opening %s history at %s", backend, path)
	switch backend {
	case BackendBolt:
		s, err := OpenBoltStore(path)
		if err != nil {
			return nil, err
		}
		logger.Printf("history session %s", s.Session())
		return s, nil
	case BackendFile, "":
		return NewFileStore(path), nil
	default:
		return nil, errs.Newf(errs.INTERNAL_ERROR, "unknown history backend %q", backend)
	}
}

// DefaultPath は<UserConfigDir>/lispsole/以下の履歴の保存先を返す
func DefaultPath(backend Backend) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errs.NewInternalError("failed to get user config dir").Wrap(err)
	}
	name := "history"
	if backend == BackendBolt {
		name = "history.db"
	}
	return filepath.Join(dir, "lispsole", name), nil
}

// lastN はentriesの末尾からlimit件を返す
func lastN(entries []string, limit int) []string {
	if limit <= 0 || len(entries) <= limit {
		return entries
	}
	return entries[len(entries)-limit:]
}

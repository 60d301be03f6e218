package history

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/kakkky/lispsole/errs"
)

// FileStore は1件ごとに"# 時刻"の行と"+"で始まる行を追記していくテキスト形式の履歴
type FileStore struct {
	path string
	now  func() time.Time
}

func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
		now:  time.Now,
	}
}

func (s *FileStore) Load(limit int) ([]string, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, errs.NewInternalError("failed to open history file").Wrap(err)
	}
	defer f.Close()

	entries := []string{}
	var lines []string
	flush := func() {
		if len(lines) > 0 {
			entries = append(entries, strings.Join(lines, "\n"))
			lines = nil
		}
	}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "+") {
			lines = append(lines, line[1:])
			continue
		}
		flush()
	}
	flush()
	if err := scanner.Err(); err != nil {
		return nil, errs.NewInternalError("failed to read history file").Wrap(err)
	}
	return lastN(entries, limit), nil
}

func (s *FileStore) Append(entry string) error {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return errs.NewInternalError("failed to open history file").Wrap(err)
	}
	defer f.Close()

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n# %s\n", s.now().Format("2006-01-02 15:04:05.000000"))
	for _, line := range strings.Split(entry, "\n") {
		sb.WriteString("+" + line + "\n")
	}
	if _, err := f.WriteString(sb.String()); err != nil {
		return errs.NewInternalError("failed to write history file").Wrap(err)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}

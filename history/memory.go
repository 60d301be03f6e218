package history

import "slices"

// MemoryStore はプロセスの中だけで履歴を保持する。履歴ファイルを開けないときに使う
type MemoryStore struct {
	entries []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: []string{}}
}

func (s *MemoryStore) Load(limit int) ([]string, error) {
	return slices.Clone(lastN(s.entries, limit)), nil
}

func (s *MemoryStore) Append(entry string) error {
	s.entries = append(s.entries, entry)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// OpenOrMemory はOpenと同じようにStoreを開く。
// 開けなかった場合はエラーとともにMemoryStoreを返すので、履歴を保存せずに続けられる
func OpenOrMemory(backend Backend, path string) (Store, error) {
	s, err := Open(backend, path)
	if err != nil {
		logger.Printf("falling back to in-memory history: %v", err)
		return NewMemoryStore(), err
	}
	return s, nil
}

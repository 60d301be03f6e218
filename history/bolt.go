package history

import (
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/kakkky/lispsole/errs"
)

const bucketCmd = "cmd"

// record はbboltに保存する履歴の1件
type record struct {
	Session string    `json:"session"`
	Time    time.Time `json:"time"`
	Text    string    `json:"text"`
}

// BoltStore はbboltのバケットに連番のキーで履歴を保存する
type BoltStore struct {
	db      *bolt.DB
	session string
	now     func() time.Time
}

// OpenBoltStore はpathのデータベースを開く。セッションごとに新しいIDを振る
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errs.NewInternalError("failed to open history database").Wrap(err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketCmd))
		return err
	})
	if err != nil {
		db.Close()
		return nil, errs.NewInternalError("failed to initialize history database").Wrap(err)
	}
	return &BoltStore{
		db:      db,
		session: uuid.NewString(),
		now:     time.Now,
	}, nil
}

// Session はこのセッションのIDを返す
func (s *BoltStore) Session() string {
	return s.session
}

func (s *BoltStore) Load(limit int) ([]string, error) {
	var entries []string
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketCmd)).Cursor()
		// 新しいものから読んで最後に並べ直す
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(entries) >= limit {
				break
			}
			var r record
			if err := json.Unmarshal(v, &r); err != nil {
				logger.Printf("skipping broken history record %d: %v", unmarshalSeq(k), err)
				continue
			}
			entries = append(entries, r.Text)
		}
		return nil
	})
	if err != nil {
		return nil, errs.NewInternalError("failed to load history").Wrap(err)
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if entries == nil {
		entries = []string{}
	}
	return entries, nil
}

func (s *BoltStore) Append(entry string) error {
	value, err := json.Marshal(record{Session: s.session, Time: s.now(), Text: entry})
	if err != nil {
		return errs.NewInternalError("failed to encode history record").Wrap(err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCmd))
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(marshalSeq(seq), value)
	})
	if err != nil {
		return errs.NewInternalError("failed to append history").Wrap(err)
	}
	return nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func unmarshalSeq(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}

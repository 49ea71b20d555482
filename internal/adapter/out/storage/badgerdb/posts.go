package badgerdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"postsapi/internal/model"
	"postsapi/internal/service"

	"github.com/dgraph-io/badger/v4"
)

const (
	PostKeyPrefix = "posts/"
	PostSeqKey    = "seq/posts"
)

// postKey zero-pads the id so that key order is id order.
func postKey(id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", PostKeyPrefix, id))
}

type postRecord struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	EditedAt  time.Time `json:"edited_at"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
}

func toRecord(p model.Post) postRecord {
	return postRecord{
		ID:        p.ID,
		CreatedAt: p.CreatedAt,
		EditedAt:  p.EditedAt,
		Title:     p.Title,
		Content:   p.Content,
		Author:    p.Author,
	}
}

func (r postRecord) toModel() model.Post {
	return model.Post{
		ID:        r.ID,
		CreatedAt: r.CreatedAt.UTC(),
		EditedAt:  r.EditedAt.UTC(),
		Title:     r.Title,
		Content:   r.Content,
		Author:    r.Author,
	}
}

type PostStorage struct {
	db *badger.DB
}

func NewPostStorage(db *badger.DB) *PostStorage {
	return &PostStorage{db: db}
}

// update runs fn in the context transaction, or in its own one if there is none.
func (s *PostStorage) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if txn, ok := txnFromContext(ctx); ok {
		return fn(txn)
	}
	return s.db.Update(fn)
}

func (s *PostStorage) view(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if txn, ok := txnFromContext(ctx); ok {
		return fn(txn)
	}
	return s.db.View(fn)
}

func (s *PostStorage) ListPosts(ctx context.Context) ([]model.Post, error) {
	out := make([]model.Post, 0)

	err := s.view(ctx, func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(PostKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			p, err := readPost(it.Item())
			if err != nil {
				return err
			}
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return out, nil
}

func (s *PostStorage) GetPostByID(ctx context.Context, postID int64) (model.Post, error) {
	var out model.Post

	err := s.view(ctx, func(txn *badger.Txn) error {
		var err error
		out, err = getPost(txn, postID)
		return err
	})
	if err != nil {
		return model.Post{}, err
	}
	return out, nil
}

func (s *PostStorage) CreatePost(ctx context.Context, in model.Post) (model.Post, error) {
	err := s.update(ctx, func(txn *badger.Txn) error {
		id, err := nextID(txn, PostSeqKey)
		if err != nil {
			return fmt.Errorf("next post id: %w", err)
		}
		in.ID = id
		return putPost(txn, in)
	})
	if err != nil {
		return model.Post{}, fmt.Errorf("create post: %w", err)
	}
	return in, nil
}

func (s *PostStorage) UpdatePost(ctx context.Context, in model.Post) (model.Post, error) {
	err := s.update(ctx, func(txn *badger.Txn) error {
		if _, err := getPost(txn, in.ID); err != nil {
			return err
		}
		return putPost(txn, in)
	})
	if err != nil {
		return model.Post{}, err
	}
	return in, nil
}

func getPost(txn *badger.Txn, postID int64) (model.Post, error) {
	item, err := txn.Get(postKey(postID))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return model.Post{}, fmt.Errorf("post %d: %w", postID, service.ErrNotFound)
		}
		return model.Post{}, fmt.Errorf("get post %d: %w", postID, err)
	}
	return readPost(item)
}

func readPost(item *badger.Item) (model.Post, error) {
	var rec postRecord
	err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &rec)
	})
	if err != nil {
		return model.Post{}, fmt.Errorf("decode %s: %w", item.Key(), err)
	}
	return rec.toModel(), nil
}

func putPost(txn *badger.Txn, p model.Post) error {
	data, err := json.Marshal(toRecord(p))
	if err != nil {
		return fmt.Errorf("encode post %d: %w", p.ID, err)
	}
	return txn.Set(postKey(p.ID), data)
}

// nextID increments the counter under seqKey and returns the new value. The
// first id is 1.
func nextID(txn *badger.Txn, seqKey string) (int64, error) {
	var cur uint64

	item, err := txn.Get([]byte(seqKey))
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
	case err != nil:
		return 0, err
	default:
		err = item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("corrupt counter %s: %d bytes", seqKey, len(val))
			}
			cur = binary.BigEndian.Uint64(val)
			return nil
		})
		if err != nil {
			return 0, err
		}
	}

	next := cur + 1
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, next)
	if err := txn.Set([]byte(seqKey), buf); err != nil {
		return 0, err
	}
	return int64(next), nil
}

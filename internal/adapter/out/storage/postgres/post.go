package postgres

import (
	"context"
	"errors"
	"fmt"

	"postsapi/internal/model"
	"postsapi/internal/service"
	"postsapi/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

var ErrBuildingQuery = errors.New("error building sql-query")

//go:generate mockgen -source=post.go -destination=./mocks/db.go -package=mocks
type DB interface {
	trmpgx.Tr
}

type PostStorage struct {
	db     DB
	getter *trmpgx.CtxGetter
}

func NewPostStorage(db DB, getter *trmpgx.CtxGetter) *PostStorage {
	return &PostStorage{
		db:     db,
		getter: getter,
	}
}

func returningPost() string {
	return "RETURNING " + tableinfo.Posts.ColumnList()
}

func (s *PostStorage) ListPosts(ctx context.Context) ([]model.Post, error) {
	query, args, err := sq.
		Select(tableinfo.Posts.ColumnNames()...).
		From(tableinfo.PostsTableName).
		OrderBy(tableinfo.PostIDColumn + " ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)

	rows, err := tr.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec error selecting posts: %w", err)
	}
	defer rows.Close()

	out := make([]model.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return out, nil
}

func (s *PostStorage) GetPostByID(ctx context.Context, postID int64) (model.Post, error) {
	query, args, err := sq.
		Select(tableinfo.Posts.ColumnNames()...).
		From(tableinfo.PostsTableName).
		Where(sq.Eq{tableinfo.PostIDColumn: postID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Post{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)

	out, err := scanPost(tr.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Post{}, fmt.Errorf("post %d: %w", postID, service.ErrNotFound)
		}
		return model.Post{}, fmt.Errorf("exec select post by id: %w", err)
	}

	return out, nil
}

func (s *PostStorage) CreatePost(ctx context.Context, in model.Post) (model.Post, error) {
	query, args, err := sq.
		Insert(tableinfo.PostsTableName).
		Columns(tableinfo.Posts.WritableColumns()...).
		Values(in.CreatedAt, in.EditedAt, in.Title, in.Content, in.Author).
		Suffix(returningPost()).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Post{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)

	out, err := scanPost(tr.QueryRow(ctx, query, args...))
	if err != nil {
		return model.Post{}, fmt.Errorf("exec error creating post: %w", err)
	}

	return out, nil
}

func (s *PostStorage) UpdatePost(ctx context.Context, in model.Post) (model.Post, error) {
	query, args, err := sq.
		Update(tableinfo.PostsTableName).
		Set(tableinfo.PostTitleColumn, in.Title).
		Set(tableinfo.PostContentColumn, in.Content).
		Set(tableinfo.PostAuthorColumn, in.Author).
		Set(tableinfo.PostEditedAtColumn, in.EditedAt).
		Where(sq.Eq{tableinfo.PostIDColumn: in.ID}).
		Suffix(returningPost()).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Post{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)

	out, err := scanPost(tr.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Post{}, fmt.Errorf("post %d: %w", in.ID, service.ErrNotFound)
		}
		return model.Post{}, fmt.Errorf("exec update post: %w", err)
	}

	return out, nil
}

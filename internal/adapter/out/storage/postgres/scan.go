package postgres

import "postsapi/internal/model"

type rowScanner interface {
	Scan(dest ...any) error
}

// scanPost reads a row laid out as tableinfo.Posts.ColumnNames.
func scanPost(row rowScanner) (model.Post, error) {
	var p model.Post
	if err := row.Scan(
		&p.ID,
		&p.CreatedAt,
		&p.EditedAt,
		&p.Title,
		&p.Content,
		&p.Author,
	); err != nil {
		return model.Post{}, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.EditedAt = p.EditedAt.UTC()
	return p, nil
}

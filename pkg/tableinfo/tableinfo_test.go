package tableinfo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPosts_CreateIfNotExistsSQL(t *testing.T) {
	t.Parallel()

	got := Posts.CreateIfNotExistsSQL()
	require.Equal(t,
		"CREATE TABLE IF NOT EXISTS posts ("+
			"id BIGSERIAL PRIMARY KEY, "+
			"created_at TIMESTAMPTZ NOT NULL, "+
			"edited_at TIMESTAMPTZ NOT NULL, "+
			"title TEXT NOT NULL, "+
			"content TEXT NOT NULL, "+
			"author TEXT NOT NULL)",
		got,
	)
}

func TestPosts_Columns(t *testing.T) {
	t.Parallel()

	require.Equal(t,
		[]string{"id", "created_at", "edited_at", "title", "content", "author"},
		Posts.ColumnNames(),
	)
	require.Equal(t,
		[]string{"created_at", "edited_at", "title", "content", "author"},
		Posts.WritableColumns(),
	)
	require.Equal(t, "id, created_at, edited_at, title, content, author", Posts.ColumnList())
}

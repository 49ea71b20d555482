package tableinfo

import (
	"fmt"
	"strings"
)

const (
	PostsTableName = "posts"

	PostIDColumn        = "id"
	PostCreatedAtColumn = "created_at"
	PostEditedAtColumn  = "edited_at"
	PostTitleColumn     = "title"
	PostContentColumn   = "content"
	PostAuthorColumn    = "author"
)

type Column struct {
	Name       string
	Type       string
	NotNull    bool
	PrimaryKey bool
}

type Table struct {
	Name    string
	Columns []Column
}

// Posts describes the posts table independently of model.Post.
var Posts = Table{
	Name: PostsTableName,
	Columns: []Column{
		{Name: PostIDColumn, Type: "BIGSERIAL", PrimaryKey: true},
		{Name: PostCreatedAtColumn, Type: "TIMESTAMPTZ", NotNull: true},
		{Name: PostEditedAtColumn, Type: "TIMESTAMPTZ", NotNull: true},
		{Name: PostTitleColumn, Type: "TEXT", NotNull: true},
		{Name: PostContentColumn, Type: "TEXT", NotNull: true},
		{Name: PostAuthorColumn, Type: "TEXT", NotNull: true},
	},
}

// ColumnNames returns column names in declaration order.
func (t Table) ColumnNames() []string {
	out := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		out = append(out, c.Name)
	}
	return out
}

// ColumnList joins ColumnNames for use in RETURNING clauses.
func (t Table) ColumnList() string {
	return strings.Join(t.ColumnNames(), ", ")
}

// WritableColumns returns every column except the generated primary key.
func (t Table) WritableColumns() []string {
	out := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c.PrimaryKey {
			continue
		}
		out = append(out, c.Name)
	}
	return out
}

// CreateIfNotExistsSQL renders an idempotent CREATE TABLE statement.
func (t Table) CreateIfNotExistsSQL() string {
	defs := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		def := c.Name + " " + c.Type
		if c.PrimaryKey {
			def += " PRIMARY KEY"
		} else if c.NotNull {
			def += " NOT NULL"
		}
		defs = append(defs, def)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", t.Name, strings.Join(defs, ", "))
}

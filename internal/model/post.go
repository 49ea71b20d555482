package model

import "time"

type Post struct {
	ID        int64
	Title     string
	Content   string
	Author    string
	CreatedAt time.Time
	EditedAt  time.Time
}

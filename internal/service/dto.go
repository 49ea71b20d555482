package service

// CreatePostRequest is the create-input shape. Fields are pointers so that a
// missing field can be told apart from an empty one.
type CreatePostRequest struct {
	Title   *string `json:"title" validate:"required,nonblank"`
	Content *string `json:"content" validate:"required,nonblank"`
	Author  *string `json:"author" validate:"required,nonblank,capitalized"`
}

// UpdatePostRequest is the update-input shape; every text field is overwritten.
type UpdatePostRequest struct {
	Title   *string `json:"title" validate:"required,nonblank"`
	Content *string `json:"content" validate:"required,nonblank"`
	Author  *string `json:"author" validate:"required,nonblank,capitalized"`
}

package payload

type ReadTime struct {
	Value int    `json:"value" form:"value" validate:"gte=0"`
	Unit  string `json:"unit"  form:"unit"`
}

// CreateBlogPostRequest is accepted as JSON or as a multipart form whose optional
// "cover" file part replaces the Cover URL.
type CreateBlogPostRequest struct {
	Category string   `json:"category" form:"category" validate:"required"`
	Title    string   `json:"title"    form:"title"    validate:"required"`
	Cover    string   `json:"cover"    form:"cover"    validate:"omitempty,url"`
	ReadTime ReadTime `json:"readTime" form:"readTime"`
	Author   string   `json:"author"   form:"author"   validate:"omitempty,email"`
	Content  string   `json:"content"  form:"content"  validate:"required"`
}

type UpdateReadTime struct {
	Value *int    `json:"value" validate:"omitempty,gte=0"`
	Unit  *string `json:"unit"`
}

type UpdateBlogPostRequest struct {
	Category *string         `json:"category" validate:"omitempty,min=1"`
	Title    *string         `json:"title"    validate:"omitempty,min=1"`
	Cover    *string         `json:"cover"    validate:"omitempty,url"`
	ReadTime *UpdateReadTime `json:"readTime"`
	Author   *string         `json:"author"   validate:"omitempty,email"`
	Content  *string         `json:"content"`
}

// AddCommentRequest defaults Name and Email to the commenting author's email.
type AddCommentRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"   validate:"omitempty,email"`
	Content string `json:"content" validate:"required"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

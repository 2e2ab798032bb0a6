package client

import "time"

type Author struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Email     string    `json:"email"`
	BirthDate string    `json:"birthDate"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
}

// DisplayName is the full name, or the email for authors without one.
func (a *Author) DisplayName() string {
	switch {
	case a.Name != "" && a.Surname != "":
		return a.Name + " " + a.Surname
	case a.Name != "":
		return a.Name
	default:
		return a.Email
	}
}

type ReadTime struct {
	Value int    `json:"value"`
	Unit  string `json:"unit"`
}

type Comment struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type BlogPost struct {
	ID        string    `json:"_id"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Cover     string    `json:"cover"`
	ReadTime  ReadTime  `json:"readTime"`
	Author    string    `json:"author"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
}

type NewAuthor struct {
	Name      string `json:"name"`
	Surname   string `json:"surname,omitempty"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	BirthDate string `json:"birthDate,omitempty"`
}

type NewComment struct {
	Content string `json:"content"`
}

// Upload is a file forwarded to the API as a multipart part.
type Upload struct {
	Filename string
	Content  []byte
}

type NewBlogPost struct {
	Title         string
	Category      string
	Content       string
	ReadTimeValue int
	ReadTimeUnit  string
	Cover         *Upload
}

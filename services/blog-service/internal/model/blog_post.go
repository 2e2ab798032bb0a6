package model

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const DefaultReadTimeUnit = "minutes"

var ErrCommentNotFound = errors.New("comment not found")

// ReadTime is the estimated reading time of a post.
type ReadTime struct {
	Value int    `json:"value" bson:"value"`
	Unit  string `json:"unit"  bson:"unit"`
}

// Comment lives only inside its BlogPost. Its id is unique within the post.
type Comment struct {
	ID        bson.ObjectID `json:"_id"       bson:"_id"`
	Name      string        `json:"name"      bson:"name"`
	Email     string        `json:"email"     bson:"email"`
	Content   string        `json:"content"   bson:"content"`
	CreatedAt time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time     `json:"updatedAt" bson:"updated_at"`
}

// BlogPost is a published article. Author holds the author's email at publication
// time; AuthorID is the immutable reference to the same author. Version increases on
// every write and guards read-modify-write of Comments.
type BlogPost struct {
	ID        bson.ObjectID `json:"_id"                bson:"_id,omitempty"`
	Category  string        `json:"category"           bson:"category"`
	Title     string        `json:"title"              bson:"title"`
	Cover     string        `json:"cover"              bson:"cover"`
	ReadTime  ReadTime      `json:"readTime"           bson:"read_time"`
	Author    string        `json:"author"             bson:"author"`
	AuthorID  string        `json:"authorId,omitempty" bson:"author_id,omitempty"`
	Content   string        `json:"content"            bson:"content"`
	Comments  []Comment     `json:"comments"           bson:"comments"`
	Version   int64         `json:"version"            bson:"version"`
	CreatedAt time.Time     `json:"createdAt"          bson:"created_at"`
	UpdatedAt time.Time     `json:"updatedAt"          bson:"updated_at"`
}

// AddComment appends a comment with a fresh id and returns it.
func (p *BlogPost) AddComment(name, email, content string, now time.Time) Comment {
	comment := Comment{
		ID:        bson.NewObjectID(),
		Name:      name,
		Email:     email,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	p.Comments = append(p.Comments, comment)

	return comment
}

// FindComment returns the comment with the given id.
func (p *BlogPost) FindComment(id bson.ObjectID) (Comment, error) {
	for _, c := range p.Comments {
		if c.ID == id {
			return c, nil
		}
	}

	return Comment{}, ErrCommentNotFound
}

// UpdateComment replaces the content of a comment and returns the updated comment.
func (p *BlogPost) UpdateComment(id bson.ObjectID, content string, now time.Time) (Comment, error) {
	for i := range p.Comments {
		if p.Comments[i].ID == id {
			p.Comments[i].Content = content
			p.Comments[i].UpdatedAt = now
			return p.Comments[i], nil
		}
	}

	return Comment{}, ErrCommentNotFound
}

// RemoveComment extracts a comment from the post.
func (p *BlogPost) RemoveComment(id bson.ObjectID) error {
	for i, c := range p.Comments {
		if c.ID == id {
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			return nil
		}
	}

	return ErrCommentNotFound
}

package usecase

import (
	"bytes"
	"context"
	"errors"
	"html/template"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/model"
	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/repository"
	"github.com/vasapolrittideah/strive-blog/shared/media"
)

// Mailer sends a single HTML email.
type Mailer interface {
	SendHTML(to []string, subject, htmlBody string) error
}

// BlogPostUsecase defines the interface for blog post use cases.
type BlogPostUsecase interface {
	ListBlogPosts(ctx context.Context, title string) ([]*model.BlogPost, error)
	GetBlogPost(ctx context.Context, id string) (*model.BlogPost, error)
	CreateBlogPost(ctx context.Context, params CreateBlogPostParams) (*model.BlogPost, error)
	UpdateBlogPost(ctx context.Context, id string, params UpdateBlogPostParams) (*model.BlogPost, error)
	DeleteBlogPost(ctx context.Context, id string) error
	UpdateCover(ctx context.Context, id string, file *media.File) (*model.BlogPost, error)
}

// CreateBlogPostParams defines the parameters for publishing a post. Author falls back
// to the email of the publishing author when empty.
type CreateBlogPostParams struct {
	Category    string
	Title       string
	Content     string
	ReadTime    model.ReadTime
	Author      string
	AuthorID    string
	AuthorEmail string
	Cover       string
	CoverFile   *media.File
}

// UpdateBlogPostParams defines the optional parameters for updating a blog post.
// Only the fields that are not nil will be updated.
type UpdateBlogPostParams struct {
	Category      *string
	Title         *string
	Cover         *string
	ReadTimeValue *int
	ReadTimeUnit  *string
	Author        *string
	Content       *string
}

const (
	coverFolder          = "covers"
	publishedMailSubject = "Your post has been published"
)

var publishedMailTemplate = template.Must(template.New("published").Parse(`
<h1>Your post is live!</h1>
<p>Hi {{.Author}},</p>
<p>Your post "{{.Title}}" has been published successfully.</p>
<p>Category: {{.Category}}</p>
<p>Thanks for contributing to the blog!</p>
`))

type blogPostUsecase struct {
	blogPostRepo repository.BlogPostRepository
	uploader     media.Uploader
	mailer       Mailer
	logger       *zerolog.Logger
}

func NewBlogPostUsecase(
	blogPostRepo repository.BlogPostRepository,
	uploader media.Uploader,
	mailer Mailer,
	logger *zerolog.Logger,
) BlogPostUsecase {
	return &blogPostUsecase{
		blogPostRepo: blogPostRepo,
		uploader:     uploader,
		mailer:       mailer,
		logger:       logger,
	}
}

func (u *blogPostUsecase) ListBlogPosts(ctx context.Context, title string) ([]*model.BlogPost, error) {
	params := repository.FilterBlogPostsParams{}
	if title != "" {
		params.Title = &title
	}

	return u.blogPostRepo.ListBlogPosts(ctx, params)
}

func (u *blogPostUsecase) GetBlogPost(ctx context.Context, id string) (*model.BlogPost, error) {
	post, err := u.blogPostRepo.GetBlogPost(ctx, id)
	if err != nil {
		return nil, mapBlogPostErr(err)
	}

	return post, nil
}

// CreateBlogPost saves the post and then notifies its author by email. The post is
// kept when the notification fails.
func (u *blogPostUsecase) CreateBlogPost(ctx context.Context, params CreateBlogPostParams) (*model.BlogPost, error) {
	post := &model.BlogPost{
		Category: params.Category,
		Title:    params.Title,
		Content:  params.Content,
		Cover:    params.Cover,
		ReadTime: params.ReadTime,
		Author:   params.Author,
		AuthorID: params.AuthorID,
	}

	if post.Author == "" {
		post.Author = params.AuthorEmail
	}
	if post.ReadTime.Unit == "" {
		post.ReadTime.Unit = model.DefaultReadTimeUnit
	}

	if params.CoverFile != nil {
		url, err := upload(ctx, u.uploader, coverFolder, *params.CoverFile)
		if err != nil {
			return nil, err
		}
		post.Cover = url
	}

	post, err := u.blogPostRepo.CreateBlogPost(ctx, post)
	if err != nil {
		return nil, mapBlogPostErr(err)
	}

	if err := u.notifyPublished(post); err != nil {
		u.logger.Error().
			Err(err).
			Str("post_id", post.ID.Hex()).
			Str("author", post.Author).
			Msg("failed to send publication email")
	}

	return post, nil
}

func (u *blogPostUsecase) UpdateBlogPost(
	ctx context.Context,
	id string,
	params UpdateBlogPostParams,
) (*model.BlogPost, error) {
	post, err := u.blogPostRepo.UpdateBlogPost(ctx, id, repository.UpdateBlogPostParams{
		Category:      params.Category,
		Title:         params.Title,
		Cover:         params.Cover,
		ReadTimeValue: params.ReadTimeValue,
		ReadTimeUnit:  params.ReadTimeUnit,
		Author:        params.Author,
		Content:       params.Content,
	})
	if errors.Is(err, repository.ErrNoFieldsToUpdate) {
		return u.GetBlogPost(ctx, id)
	}
	if err != nil {
		return nil, mapBlogPostErr(err)
	}

	return post, nil
}

func (u *blogPostUsecase) DeleteBlogPost(ctx context.Context, id string) error {
	_, err := u.blogPostRepo.DeleteBlogPost(ctx, id)
	return mapBlogPostErr(err)
}

func (u *blogPostUsecase) UpdateCover(ctx context.Context, id string, file *media.File) (*model.BlogPost, error) {
	if file == nil {
		return nil, ErrNoFile
	}

	if _, err := u.GetBlogPost(ctx, id); err != nil {
		return nil, err
	}

	url, err := upload(ctx, u.uploader, coverFolder, *file)
	if err != nil {
		return nil, err
	}

	post, err := u.blogPostRepo.UpdateBlogPost(ctx, id, repository.UpdateBlogPostParams{Cover: &url})
	if err != nil {
		return nil, mapBlogPostErr(err)
	}

	return post, nil
}

func (u *blogPostUsecase) notifyPublished(post *model.BlogPost) error {
	var body bytes.Buffer
	if err := publishedMailTemplate.Execute(&body, post); err != nil {
		return err
	}

	return u.mailer.SendHTML([]string{post.Author}, publishedMailSubject, body.String())
}

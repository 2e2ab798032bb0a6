package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/model"
	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/repository"
	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/repository/mock"
	"github.com/vasapolrittideah/strive-blog/shared/auth"
	"github.com/vasapolrittideah/strive-blog/shared/media"
	"github.com/vasapolrittideah/strive-blog/shared/provider"
	"github.com/vasapolrittideah/strive-blog/shared/security"
)

type fakeUploader struct {
	err     error
	folders []string
}

func (f *fakeUploader) Upload(_ context.Context, folder string, file media.File) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.ReadAll(file.Reader); err != nil {
		return "", err
	}
	f.folders = append(f.folders, folder)
	return "https://cdn.example.com/" + folder + "/" + file.Filename, nil
}

type sentMail struct {
	to      []string
	subject string
	body    string
}

type fakeMailer struct {
	mu   sync.Mutex
	err  error
	sent []sentMail
}

func (f *fakeMailer) SendHTML(to []string, subject, htmlBody string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

type fakeProvider struct {
	name     string
	identity *provider.Identity
	err      error
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://provider.example.com/authorize?state=" + state
}

func (p *fakeProvider) Identify(_ context.Context, code string) (*provider.Identity, error) {
	if p.err != nil {
		return nil, p.err
	}
	if code != "good-code" {
		return nil, provider.ErrExchangeFailed
	}
	identity := *p.identity
	return &identity, nil
}

func nopLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func imageFile(name string) *media.File {
	return &media.File{Reader: strings.NewReader("png-bytes"), Size: 9, Filename: name}
}

func TestAuthorUsecaseCreate(t *testing.T) {
	ctx := context.Background()
	authors := mock.NewAuthorRepository()
	identities := mock.NewIdentityRepository()
	u := NewAuthorUsecase(authors, identities, mock.NewBlogPostRepository(), &fakeUploader{}, nopLogger())

	author, err := u.CreateAuthor(ctx, CreateAuthorParams{Name: "Ada", Email: "ada@example.com", Password: "s3cret!"})
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", author.Password)

	ok, err := security.VerifyPassword("s3cret!", author.Password)
	require.NoError(t, err)
	assert.True(t, ok)

	linked, err := identities.GetIdentitiesByAuthorID(ctx, author.ID.Hex())
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, model.ProviderEmail, linked[0].Provider)

	_, err = u.CreateAuthor(ctx, CreateAuthorParams{Name: "Copy", Email: "ada@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrAuthorAlreadyExists)

	list, err := u.ListAuthors(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAuthorUsecaseUpdate(t *testing.T) {
	ctx := context.Background()
	u := NewAuthorUsecase(
		mock.NewAuthorRepository(),
		mock.NewIdentityRepository(),
		mock.NewBlogPostRepository(),
		&fakeUploader{},
		nopLogger(),
	)

	author, err := u.CreateAuthor(ctx, CreateAuthorParams{Name: "Ada", Email: "ada@example.com", Password: "old"})
	require.NoError(t, err)

	password := "new-password"
	surname := "Lovelace"
	updated, err := u.UpdateAuthor(ctx, author.ID.Hex(), UpdateAuthorParams{Surname: &surname, Password: &password})
	require.NoError(t, err)
	assert.Equal(t, "Lovelace", updated.Surname)
	assert.Equal(t, "Ada", updated.Name)

	ok, err := security.VerifyPassword("new-password", updated.Password)
	require.NoError(t, err)
	assert.True(t, ok)

	unchanged, err := u.UpdateAuthor(ctx, author.ID.Hex(), UpdateAuthorParams{})
	require.NoError(t, err)
	assert.Equal(t, "Lovelace", unchanged.Surname)

	_, err = u.UpdateAuthor(ctx, bson.NewObjectID().Hex(), UpdateAuthorParams{Surname: &surname})
	assert.ErrorIs(t, err, ErrAuthorNotFound)

	_, err = u.UpdateAuthor(ctx, "bad-id", UpdateAuthorParams{Surname: &surname})
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestAuthorUsecaseDelete(t *testing.T) {
	ctx := context.Background()
	identities := mock.NewIdentityRepository()
	posts := mock.NewBlogPostRepository()
	u := NewAuthorUsecase(mock.NewAuthorRepository(), identities, posts, &fakeUploader{}, nopLogger())

	author, err := u.CreateAuthor(ctx, CreateAuthorParams{Name: "Ada", Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)
	_, err = posts.CreateBlogPost(ctx, &model.BlogPost{Title: "Kept", Author: "ada@example.com"})
	require.NoError(t, err)

	require.NoError(t, u.DeleteAuthor(ctx, author.ID.Hex()))

	_, err = u.GetAuthor(ctx, author.ID.Hex())
	assert.ErrorIs(t, err, ErrAuthorNotFound)
	assert.ErrorIs(t, u.DeleteAuthor(ctx, author.ID.Hex()), ErrAuthorNotFound)

	linked, err := identities.GetIdentitiesByAuthorID(ctx, author.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, linked)

	remaining, err := posts.ListBlogPosts(ctx, repository.FilterBlogPostsParams{})
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestAuthorUsecaseListAuthorBlogPosts(t *testing.T) {
	ctx := context.Background()
	posts := mock.NewBlogPostRepository()
	u := NewAuthorUsecase(mock.NewAuthorRepository(), mock.NewIdentityRepository(), posts, &fakeUploader{}, nopLogger())

	author, err := u.CreateAuthor(ctx, CreateAuthorParams{Name: "Ada", Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = posts.CreateBlogPost(ctx, &model.BlogPost{Title: "By email", Author: "ada@example.com"})
	require.NoError(t, err)
	_, err = posts.CreateBlogPost(ctx, &model.BlogPost{
		Title:    "By id",
		Author:   "old-address@example.com",
		AuthorID: author.ID.Hex(),
	})
	require.NoError(t, err)
	_, err = posts.CreateBlogPost(ctx, &model.BlogPost{Title: "Someone else", Author: "bob@example.com"})
	require.NoError(t, err)

	list, err := u.ListAuthorBlogPosts(ctx, author.ID.Hex())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "By email", list[0].Title)
	assert.Equal(t, "By id", list[1].Title)

	_, err = u.ListAuthorBlogPosts(ctx, bson.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrAuthorNotFound)
}

func TestAuthorUsecaseUpdateAvatar(t *testing.T) {
	ctx := context.Background()
	uploader := &fakeUploader{}
	u := NewAuthorUsecase(mock.NewAuthorRepository(), mock.NewIdentityRepository(), mock.NewBlogPostRepository(), uploader, nopLogger())

	author, err := u.CreateAuthor(ctx, CreateAuthorParams{Name: "Ada", Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)

	updated, err := u.UpdateAvatar(ctx, author.ID.Hex(), imageFile("me.png"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/avatars/me.png", updated.Avatar)

	_, err = u.UpdateAvatar(ctx, author.ID.Hex(), nil)
	assert.ErrorIs(t, err, ErrNoFile)

	_, err = u.UpdateAvatar(ctx, bson.NewObjectID().Hex(), imageFile("me.png"))
	assert.ErrorIs(t, err, ErrAuthorNotFound)

	uploader.err = media.ErrUnsupportedMedia
	_, err = u.UpdateAvatar(ctx, author.ID.Hex(), imageFile("me.txt"))
	assert.ErrorIs(t, err, ErrUnsupportedMedia)
}

func TestBlogPostUsecaseCreate(t *testing.T) {
	ctx := context.Background()
	mailer := &fakeMailer{}
	uploader := &fakeUploader{}
	u := NewBlogPostUsecase(mock.NewBlogPostRepository(), uploader, mailer, nopLogger())

	post, err := u.CreateBlogPost(ctx, CreateBlogPostParams{
		Title:       "Hello <World>",
		Category:    "news",
		ReadTime:    model.ReadTime{Value: 5},
		AuthorID:    "author-1",
		AuthorEmail: "ada@example.com",
		CoverFile:   imageFile("cover.png"),
	})
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", post.Author)
	assert.Equal(t, "author-1", post.AuthorID)
	assert.Equal(t, "minutes", post.ReadTime.Unit)
	assert.Equal(t, "https://cdn.example.com/covers/cover.png", post.Cover)
	assert.Equal(t, int64(1), post.Version)
	assert.NotNil(t, post.Comments)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"ada@example.com"}, mailer.sent[0].to)
	assert.Equal(t, publishedMailSubject, mailer.sent[0].subject)
	assert.Contains(t, mailer.sent[0].body, "Hello &lt;World&gt;")
}

func TestBlogPostUsecaseCreateKeepsPostWhenMailFails(t *testing.T) {
	ctx := context.Background()
	posts := mock.NewBlogPostRepository()
	u := NewBlogPostUsecase(posts, &fakeUploader{}, &fakeMailer{err: errors.New("smtp down")}, nopLogger())

	post, err := u.CreateBlogPost(ctx, CreateBlogPostParams{Title: "Hello", Author: "ada@example.com"})
	require.NoError(t, err)

	stored, err := u.GetBlogPost(ctx, post.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Hello", stored.Title)
}

func TestBlogPostUsecaseListAndUpdate(t *testing.T) {
	ctx := context.Background()
	u := NewBlogPostUsecase(mock.NewBlogPostRepository(), &fakeUploader{}, &fakeMailer{}, nopLogger())

	for _, title := range []string{"Hello world", "Say HELLO", "Goodbye"} {
		_, err := u.CreateBlogPost(ctx, CreateBlogPostParams{Title: title, Author: "ada@example.com"})
		require.NoError(t, err)
	}

	all, err := u.ListBlogPosts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	for range 2 {
		hello, err := u.ListBlogPosts(ctx, "hello")
		require.NoError(t, err)
		require.Len(t, hello, 2)
		assert.Equal(t, "Hello world", hello[0].Title)
		assert.Equal(t, "Say HELLO", hello[1].Title)
	}

	content := "<p>Updated</p>"
	updated, err := u.UpdateBlogPost(ctx, all[2].ID.Hex(), UpdateBlogPostParams{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "<p>Updated</p>", updated.Content)
	assert.Equal(t, "Goodbye", updated.Title)
	assert.Equal(t, all[2].Version+1, updated.Version)

	_, err = u.UpdateBlogPost(ctx, bson.NewObjectID().Hex(), UpdateBlogPostParams{Content: &content})
	assert.ErrorIs(t, err, ErrBlogPostNotFound)

	require.NoError(t, u.DeleteBlogPost(ctx, all[2].ID.Hex()))
	assert.ErrorIs(t, u.DeleteBlogPost(ctx, all[2].ID.Hex()), ErrBlogPostNotFound)
	assert.ErrorIs(t, u.DeleteBlogPost(ctx, "nope"), ErrInvalidID)
}

func TestBlogPostUsecaseUpdateCover(t *testing.T) {
	ctx := context.Background()
	u := NewBlogPostUsecase(mock.NewBlogPostRepository(), &fakeUploader{}, &fakeMailer{}, nopLogger())

	post, err := u.CreateBlogPost(ctx, CreateBlogPostParams{Title: "Hello", Author: "ada@example.com"})
	require.NoError(t, err)

	updated, err := u.UpdateCover(ctx, post.ID.Hex(), imageFile("new.png"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/covers/new.png", updated.Cover)

	_, err = u.UpdateCover(ctx, post.ID.Hex(), nil)
	assert.ErrorIs(t, err, ErrNoFile)

	_, err = u.UpdateCover(ctx, bson.NewObjectID().Hex(), imageFile("new.png"))
	assert.ErrorIs(t, err, ErrBlogPostNotFound)
}

func TestCommentUsecase(t *testing.T) {
	ctx := context.Background()
	posts := mock.NewBlogPostRepository()
	u := NewCommentUsecase(posts)

	post, err := posts.CreateBlogPost(ctx, &model.BlogPost{Title: "Hello", Author: "ada@example.com"})
	require.NoError(t, err)
	postID := post.ID.Hex()

	comment, err := u.AddComment(ctx, postID, AddCommentParams{Name: "Bob", Email: "bob@example.com", Content: "Nice"})
	require.NoError(t, err)
	assert.False(t, comment.ID.IsZero())

	comments, err := u.ListComments(ctx, postID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Nice", comments[0].Content)

	updated, err := u.UpdateComment(ctx, postID, comment.ID.Hex(), "Very nice")
	require.NoError(t, err)
	assert.Equal(t, "Very nice", updated.Content)

	got, err := u.GetComment(ctx, postID, comment.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Very nice", got.Content)

	require.NoError(t, u.DeleteComment(ctx, postID, comment.ID.Hex()))

	_, err = u.GetComment(ctx, postID, comment.ID.Hex())
	assert.ErrorIs(t, err, ErrCommentNotFound)
	assert.ErrorIs(t, u.DeleteComment(ctx, postID, comment.ID.Hex()), ErrCommentNotFound)

	_, err = u.GetComment(ctx, postID, "not-an-id")
	assert.ErrorIs(t, err, ErrCommentNotFound)

	_, err = u.ListComments(ctx, bson.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrBlogPostNotFound)
}

// conflictingRepository lets another writer bump the post version between the read
// and the write of a comment mutation.
type conflictingRepository struct {
	*mock.BlogPostRepository
}

func (r conflictingRepository) GetBlogPost(ctx context.Context, id string) (*model.BlogPost, error) {
	post, err := r.BlogPostRepository.GetBlogPost(ctx, id)
	if err != nil {
		return nil, err
	}
	r.BumpVersion(post.ID)
	return post, nil
}

func TestCommentUsecaseVersionConflict(t *testing.T) {
	ctx := context.Background()
	posts := mock.NewBlogPostRepository()

	post, err := posts.CreateBlogPost(ctx, &model.BlogPost{Title: "Hello"})
	require.NoError(t, err)

	u := NewCommentUsecase(conflictingRepository{posts})

	_, err = u.AddComment(ctx, post.ID.Hex(), AddCommentParams{Name: "Bob", Email: "bob@example.com", Content: "Hi"})
	assert.ErrorIs(t, err, ErrVersionConflict)

	comments, err := NewCommentUsecase(posts).ListComments(ctx, post.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func newTestAuthUsecase(t *testing.T, providers ...provider.Provider) (AuthUsecase, *mock.AuthorRepository, *mock.IdentityRepository, *mock.OAuthStateRepository, *auth.JWTAuthenticator) {
	t.Helper()

	authors := mock.NewAuthorRepository()
	identities := mock.NewIdentityRepository()
	states := mock.NewOAuthStateRepository()
	jwtAuth := auth.NewJWTAuthenticator("secret", "", "strive-blog", time.Hour)

	u := NewAuthUsecase(authors, identities, states, providers, jwtAuth, nopLogger())

	return u, authors, identities, states, jwtAuth
}

func TestAuthUsecaseLogin(t *testing.T) {
	ctx := context.Background()
	u, authors, identities, _, jwtAuth := newTestAuthUsecase(t)
	authorUsecase := NewAuthorUsecase(authors, identities, mock.NewBlogPostRepository(), &fakeUploader{}, nopLogger())

	author, err := authorUsecase.CreateAuthor(ctx, CreateAuthorParams{Name: "Ada", Email: "a@x.com", Password: "pw123"})
	require.NoError(t, err)

	token, err := u.Login(ctx, LoginParams{Email: "a@x.com", Password: "pw123"})
	require.NoError(t, err)

	claims, err := jwtAuth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, author.ID.Hex(), claims.AuthorID)
	assert.Equal(t, "a@x.com", claims.Email)

	linked, err := identities.GetIdentitiesByAuthorID(ctx, author.ID.Hex())
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.False(t, linked[0].LastLoginAt.IsZero())

	_, err = u.Login(ctx, LoginParams{Email: "a@x.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = u.Login(ctx, LoginParams{Email: "nobody@x.com", Password: "pw123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	me, err := u.Me(ctx, author.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", me.Email)

	_, err = u.Me(ctx, bson.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrAuthorNotFound)
}

func TestAuthUsecaseLoginWithoutPassword(t *testing.T) {
	ctx := context.Background()
	u, authors, _, _, _ := newTestAuthUsecase(t)

	_, err := authors.CreateAuthor(ctx, &model.Author{Name: "OAuth", Email: "oauth@x.com"})
	require.NoError(t, err)

	_, err = u.Login(ctx, LoginParams{Email: "oauth@x.com", Password: ""})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthUsecaseOAuth(t *testing.T) {
	ctx := context.Background()
	github := &fakeProvider{name: "github", identity: &provider.Identity{
		Provider:   "github",
		ProviderID: "42",
		Email:      "mona@example.com",
		Name:       "Mona",
		Surname:    "Octocat",
	}}
	google := &fakeProvider{name: "google", identity: &provider.Identity{
		Provider:   "google",
		ProviderID: "g-1",
		Email:      "mona@example.com",
		Name:       "Mona",
	}}
	u, authors, identities, states, jwtAuth := newTestAuthUsecase(t, github, google)

	begin := func(name string) string {
		t.Helper()
		url, err := u.BeginOAuth(ctx, name)
		require.NoError(t, err)
		require.Contains(t, url, "state=")
		return url[strings.Index(url, "state=")+len("state="):]
	}

	// First sign-in creates the author.
	token, err := u.CompleteOAuth(ctx, "github", begin("github"), "good-code")
	require.NoError(t, err)
	claims, err := jwtAuth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "mona@example.com", claims.Email)

	created, err := authors.GetAuthorByEmail(ctx, "mona@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Octocat", created.Surname)
	assert.False(t, created.HasPassword())

	// Second sign-in finds the same author through the linked identity.
	token, err = u.CompleteOAuth(ctx, "github", begin("github"), "good-code")
	require.NoError(t, err)
	claims, err = jwtAuth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID.Hex(), claims.AuthorID)

	// Another provider with the same email links to the existing author.
	_, err = u.CompleteOAuth(ctx, "google", begin("google"), "good-code")
	require.NoError(t, err)

	linked, err := identities.GetIdentitiesByAuthorID(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, linked, 2)

	all, err := authors.ListAuthors(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Empty(t, states.States())
}

func TestAuthUsecaseOAuthRejects(t *testing.T) {
	ctx := context.Background()
	github := &fakeProvider{name: "github", identity: &provider.Identity{Provider: "github", ProviderID: "1", Email: "a@x.com"}}
	u, _, _, states, _ := newTestAuthUsecase(t, github)

	_, err := u.BeginOAuth(ctx, "facebook")
	assert.ErrorIs(t, err, ErrUnknownProvider)

	_, err = u.CompleteOAuth(ctx, "github", "", "good-code")
	assert.ErrorIs(t, err, ErrInvalidOAuthState)

	_, err = u.CompleteOAuth(ctx, "github", "never-issued", "good-code")
	assert.ErrorIs(t, err, ErrInvalidOAuthState)

	require.NoError(t, states.SaveState(ctx, "for-google", "google", time.Minute))
	_, err = u.CompleteOAuth(ctx, "github", "for-google", "good-code")
	assert.ErrorIs(t, err, ErrInvalidOAuthState)

	require.NoError(t, states.SaveState(ctx, "valid", "github", time.Minute))
	_, err = u.CompleteOAuth(ctx, "github", "valid", "bad-code")
	assert.ErrorIs(t, err, provider.ErrExchangeFailed)

	// The state is single use.
	_, err = u.CompleteOAuth(ctx, "github", "valid", "good-code")
	assert.ErrorIs(t, err, ErrInvalidOAuthState)
}

func newTestPasswordResetUsecase() (PasswordResetUsecase, *mock.AuthorRepository, *mock.IdentityRepository, *mock.PasswordResetTokenRepository, *fakeMailer) {
	authors := mock.NewAuthorRepository()
	identities := mock.NewIdentityRepository()
	tokens := mock.NewPasswordResetTokenRepository()
	mailer := &fakeMailer{}

	u := NewPasswordResetUsecase(authors, identities, tokens, mailer, PasswordResetConfig{
		ResetURL:  "https://strive.blog/reset-password",
		ExpiresIn: time.Hour,
	}, nopLogger())

	return u, authors, identities, tokens, mailer
}

func TestPasswordResetUsecaseRequest(t *testing.T) {
	ctx := context.Background()
	u, authors, _, tokens, mailer := newTestPasswordResetUsecase()

	author, err := authors.CreateAuthor(ctx, &model.Author{Name: "Ada", Email: "a@x.com"})
	require.NoError(t, err)

	require.NoError(t, u.RequestPasswordReset(ctx, "nobody@x.com"))
	assert.Empty(t, mailer.sent)
	assert.Empty(t, tokens.Tokens())

	require.NoError(t, u.RequestPasswordReset(ctx, "a@x.com"))
	require.NoError(t, u.RequestPasswordReset(ctx, "a@x.com"))

	stored := tokens.Tokens()
	require.Len(t, stored, 2)
	assert.True(t, stored[0].Used, "older links are invalidated")
	assert.False(t, stored[1].Used)
	assert.Equal(t, author.ID, stored[1].AuthorID)
	assert.Len(t, stored[1].Token, 64)

	require.Len(t, mailer.sent, 2)
	assert.Equal(t, []string{"a@x.com"}, mailer.sent[1].to)
	assert.Contains(t, mailer.sent[1].body, "https://strive.blog/reset-password?token="+stored[1].Token)

	assert.NoError(t, u.ValidatePasswordResetToken(ctx, stored[1].Token))
	assert.ErrorIs(t, u.ValidatePasswordResetToken(ctx, stored[0].Token), ErrResetTokenAlreadyUsed)
	assert.ErrorIs(t, u.ValidatePasswordResetToken(ctx, "unknown"), ErrResetTokenNotFound)
}

func TestPasswordResetUsecaseReset(t *testing.T) {
	ctx := context.Background()
	u, authors, identities, tokens, _ := newTestPasswordResetUsecase()

	// Signed up through a provider, so no password and no email identity yet.
	author, err := authors.CreateAuthor(ctx, &model.Author{Name: "Mona", Email: "mona@x.com"})
	require.NoError(t, err)

	require.NoError(t, u.RequestPasswordReset(ctx, "mona@x.com"))
	token := tokens.Tokens()[0].Token

	require.NoError(t, u.ResetPassword(ctx, token, "new-secret"))

	updated, err := authors.GetAuthor(ctx, author.ID.Hex())
	require.NoError(t, err)
	ok, err := security.VerifyPassword("new-secret", updated.Password)
	require.NoError(t, err)
	assert.True(t, ok)

	linked, err := identities.GetIdentitiesByAuthorID(ctx, author.ID.Hex())
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, model.ProviderEmail, linked[0].Provider)

	assert.ErrorIs(t, u.ResetPassword(ctx, token, "another"), ErrResetTokenAlreadyUsed)
}

func TestPasswordResetUsecaseExpiredToken(t *testing.T) {
	ctx := context.Background()
	u, authors, _, tokens, _ := newTestPasswordResetUsecase()

	_, err := authors.CreateAuthor(ctx, &model.Author{Name: "Ada", Email: "a@x.com"})
	require.NoError(t, err)
	require.NoError(t, u.RequestPasswordReset(ctx, "a@x.com"))

	token := tokens.Tokens()[0].Token
	tokens.Expire(token)

	assert.ErrorIs(t, u.ValidatePasswordResetToken(ctx, token), ErrResetTokenExpired)
	assert.ErrorIs(t, u.ResetPassword(ctx, token, "new-secret"), ErrResetTokenExpired)
}

func TestPasswordResetUsecaseMailFailure(t *testing.T) {
	ctx := context.Background()
	u, authors, _, _, mailer := newTestPasswordResetUsecase()
	mailer.err = errors.New("smtp down")

	_, err := authors.CreateAuthor(ctx, &model.Author{Name: "Ada", Email: "a@x.com"})
	require.NoError(t, err)

	assert.Error(t, u.RequestPasswordReset(ctx, "a@x.com"))
}

package provider

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

type GoogleOAuthProvider struct {
	config     *oauth2.Config
	apiOptions []option.ClientOption
}

func NewGoogleOAuthProvider(cfg OAuthConfig) *GoogleOAuthProvider {
	return &GoogleOAuthProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				googleoauth2.OpenIDScope,
				googleoauth2.UserinfoEmailScope,
				googleoauth2.UserinfoProfileScope,
			},
			Endpoint: google.Endpoint,
		},
	}
}

func (p *GoogleOAuthProvider) Name() string {
	return "google"
}

func (p *GoogleOAuthProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Identify exchanges code for a token and reads the user's profile from the
// userinfo endpoint.
func (p *GoogleOAuthProvider) Identify(ctx context.Context, code string) (*Identity, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}

	opts := append([]option.ClientOption{
		option.WithHTTPClient(p.config.Client(ctx, token)),
	}, p.apiOptions...)

	oauth2Service, err := googleoauth2.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create google oauth2 service: %w", err)
	}

	userInfo, err := oauth2Service.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get google user info: %w", err)
	}

	if userInfo.Email == "" || (userInfo.VerifiedEmail != nil && !*userInfo.VerifiedEmail) {
		return nil, ErrNoVerifiedEmail
	}

	name, surname := userInfo.GivenName, userInfo.FamilyName
	if name == "" {
		name, surname = splitName(userInfo.Name)
	}

	return &Identity{
		Provider:   p.Name(),
		ProviderID: userInfo.Id,
		Email:      userInfo.Email,
		Name:       name,
		Surname:    surname,
		AvatarURL:  userInfo.Picture,
	}, nil
}

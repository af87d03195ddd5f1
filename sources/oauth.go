package sources

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	redditAuthURL  = "https://www.reddit.com/api/v1/authorize"
	redditTokenURL = "https://www.reddit.com/api/v1/access_token"
	RedditAPIURL   = "https://oauth.reddit.com"
)

var RedditEndpoint = oauth2.Endpoint{
	AuthURL:   redditAuthURL,
	TokenURL:  redditTokenURL,
	AuthStyle: oauth2.AuthStyleInHeader,
}

// NewUserOAuthConfig is the authorization code flow used to connect accounts.
// "history" is needed to list the account's submissions.
func NewUserOAuthConfig(clientID, clientSecret, redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Endpoint:     RedditEndpoint,
		Scopes:       []string{"identity", "history"},
	}
}

// NewAppOnlyClient returns a client authenticated as the application itself, used for
// search and post lookups. Tokens are fetched and renewed by oauth2 through base.
func NewAppOnlyClient(base *http.Client, clientID, clientSecret string) *http.Client {
	cfg := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     redditTokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	client := cfg.Client(ctx)
	client.Timeout = base.Timeout
	return client
}

// UserOAuth runs the authorization code flow through client, so token exchanges go
// through the same proxy and User-Agent as every other Reddit call.
type UserOAuth struct {
	*oauth2.Config
	client *http.Client
}

func NewUserOAuth(cfg *oauth2.Config, client *http.Client) *UserOAuth {
	return &UserOAuth{Config: cfg, client: client}
}

func (o *UserOAuth) Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, o.client)
	return o.Config.Exchange(ctx, code, opts...)
}

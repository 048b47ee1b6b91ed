package webclient

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// HeaderPreservingClient copies the original request headers onto redirects,
// so Accept and Authorization survive a gateway bounce.
func HeaderPreservingClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(r *http.Request, via []*http.Request) error {
			if len(via) > 0 {
				r.Header = via[0].Header.Clone()
			}

			return nil
		},
	}
}

type bearerTransport struct {
	next   HTTPTransport
	source oauth2.TokenSource
}

// WithBearerToken wraps next so every request carries the static token.
func WithBearerToken(next HTTPTransport, token string) HTTPTransport {
	return WithTokenSource(next, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
}

// WithTokenSource wraps next so every request carries a token from source.
func WithTokenSource(next HTTPTransport, source oauth2.TokenSource) HTTPTransport {
	return &bearerTransport{next: next, source: source}
}

// The token endpoint is called through base, never through the wrapped
// transport.
func clientCredentialsSource(cc ClientCredentials, base *http.Client) oauth2.TokenSource {
	conf := &clientcredentials.Config{
		ClientID:     cc.ClientID,
		ClientSecret: cc.ClientSecret,
		TokenURL:     cc.TokenURL,
		Scopes:       cc.Scopes,
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	return conf.TokenSource(ctx)
}

func (t *bearerTransport) Do(req *http.Request) (*http.Response, error) {
	tok, err := t.source.Token()
	if err != nil {
		return nil, fmt.Errorf("bearer token: %w", err)
	}

	req = req.Clone(req.Context())
	tok.SetAuthHeader(req)

	return t.next.Do(req)
}

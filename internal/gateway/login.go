package gateway

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"inventory-catalog/internal/auth"
	"inventory-catalog/internal/codec"
)

// LoginResult is the body of a successful login.
type LoginResult struct {
	Token string
	User  auth.User
}

// Login exchanges credentials for a bearer token. It is the only unauthenticated call.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	payload, err := codec.EncodeJSON(map[string]string{"email": email, "password": password})
	if err != nil {
		return LoginResult{}, err
	}
	body, err := c.do(ctx, http.MethodPost, "/api/auth/login", &payload, false)
	if err != nil {
		return LoginResult{}, err
	}
	doc, err := codec.DecodeOne(body)
	if err != nil {
		return LoginResult{}, err
	}
	res := LoginResult{Token: cast.ToString(doc["token"])}
	if res.Token == "" {
		return LoginResult{}, errors.New("login response carried no token")
	}
	if u, ok := doc["user"].(map[string]any); ok {
		if res.User, err = codec.Normalize[auth.User](codec.Document(u)); err != nil {
			return LoginResult{}, err
		}
	}
	return res, nil
}

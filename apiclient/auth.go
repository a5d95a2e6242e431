package apiclient

import (
	"context"

	"github.com/pkg/errors"

	"github.com/scibiz/eventapp/credentials"
)

// loginPath is unauthenticated: the passcode travels as the password field.
const loginPath = "/auth/local"

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  struct {
		Email string `json:"email"`
	} `json:"user"`
}

// Exchange posts the email + passcode pair to the auth endpoint and
// returns the session it grants. Any 4xx from the endpoint is reported as
// a credential rejection. Satisfies session.AuthClient.
func (c *Client) Exchange(ctx context.Context, identifier, passcode string) (credentials.Session, error) {
	var res loginResponse
	err := c.Post(ctx, loginPath, loginRequest{Identifier: identifier, Password: passcode}, &res)
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
			apiErr.Kind = KindAuthRejected
		}
		return credentials.Session{}, err
	}

	return credentials.Session{
		Token:    res.Token,
		Identity: credentials.Identity{Email: res.User.Email},
	}, nil
}

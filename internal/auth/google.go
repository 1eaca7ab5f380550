package auth

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

const tokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// Profile is the subset of the identity provider's claims the server needs
// to find or create a user.
type Profile struct {
	GoogleId    string
	Email       string
	DisplayName string
	PictureUrl  string
}

// Verifier checks an identity token and returns the profile it asserts.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (Profile, error)
}

type tokenInfoResponse struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	Error         string `json:"error_description"`
}

// GoogleVerifier validates Google ID tokens against the tokeninfo endpoint.
type GoogleVerifier struct {
	client *resty.Client
}

var _ Verifier = (*GoogleVerifier)(nil)

func NewGoogleVerifier() *GoogleVerifier {
	return &GoogleVerifier{client: resty.New()}
}

func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (Profile, error) {
	var info tokenInfoResponse
	resp, err := v.client.R().
		SetContext(ctx).
		SetQueryParam("id_token", idToken).
		SetResult(&info).
		Get(tokenInfoURL)
	if err != nil {
		return Profile{}, fmt.Errorf("error verifying id token: %w", err)
	}
	if resp.IsError() {
		return Profile{}, fmt.Errorf("id token rejected: %s", resp.Status())
	}
	if info.Sub == "" {
		return Profile{}, fmt.Errorf("id token response missing subject")
	}

	return Profile{
		GoogleId:    info.Sub,
		Email:       info.Email,
		DisplayName: info.Name,
		PictureUrl:  info.Picture,
	}, nil
}

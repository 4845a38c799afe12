// Package captcha talks to a remote captcha verification service that
// answers with a boolean verdict for a challenge token.
package captcha

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// Verifier checks a captcha challenge token against the provider
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) (bool, error)
}

type verdict struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// HTTPVerifier implements Verifier against a siteverify-style endpoint
// (Turnstile, reCAPTCHA and friends share the wire shape).
type HTTPVerifier struct {
	client    *resty.Client
	verifyURL string
	secret    string
}

var _ Verifier = &HTTPVerifier{}

// NewHTTPVerifier creates a new captcha verifier
func NewHTTPVerifier(verifyURL, secret string) *HTTPVerifier {
	return &HTTPVerifier{
		client:    resty.New(),
		verifyURL: verifyURL,
		secret:    secret,
	}
}

// Verify posts the challenge token and returns the provider's verdict.
// A missing token is a negative verdict, not an error.
func (v *HTTPVerifier) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	if token == "" {
		return false, nil
	}

	var result verdict

	resp, err := v.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"secret":   v.secret,
			"response": token,
			"remoteip": remoteIP,
		}).
		SetResult(&result).
		Post(v.verifyURL)

	if err != nil {
		return false, fmt.Errorf("captcha verify request failed: %w", err)
	}

	if resp.IsError() {
		return false, fmt.Errorf("captcha verify returned status %d", resp.StatusCode())
	}

	return result.Success, nil
}

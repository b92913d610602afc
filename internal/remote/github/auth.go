package github

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/go-github/v58/github"
)

const maxErrorBody = 4096

// AuthenticatedUser returns the login the token belongs to
func (c *Client) AuthenticatedUser(ctx context.Context) (string, error) {
	user, _, err := c.client.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("token validation failed: %w", err)
	}

	return user.GetLogin(), nil
}

// ErrorResponse holds what GitHub reported about a failed request
type ErrorResponse struct {
	StatusCode int
	Message    string
	Errors     []string
	Body       string
}

// ResponseError extracts the HTTP status and GitHub error body from err.
// ok is false for errors that never got an HTTP response.
func ResponseError(err error) (resp *ErrorResponse, ok bool) {
	var ge *github.ErrorResponse
	if errors.As(err, &ge) && ge.Response != nil {
		resp := &ErrorResponse{
			StatusCode: ge.Response.StatusCode,
			Message:    ge.Message,
			Body:       readBody(ge.Response.Body),
		}
		for _, e := range ge.Errors {
			resp.Errors = append(resp.Errors, describeError(e))
		}
		return resp, true
	}

	var rle *github.RateLimitError
	if errors.As(err, &rle) && rle.Response != nil {
		return &ErrorResponse{StatusCode: rle.Response.StatusCode, Message: rle.Message}, true
	}

	var are *github.AbuseRateLimitError
	if errors.As(err, &are) && are.Response != nil {
		return &ErrorResponse{StatusCode: are.Response.StatusCode, Message: are.Message}, true
	}

	return nil, false
}

func describeError(e github.Error) string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error()
}

// readBody reads the error body go-github leaves on the response
func readBody(body io.Reader) string {
	if body == nil {
		return ""
	}
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil {
		return ""
	}
	return string(data)
}

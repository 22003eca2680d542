package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/jobtracker/jobtracker/internal/client/models"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for a bearer token via the form-encoded
// POST /api/token. It never touches the session: a rejected login returns
// an error matching ErrInvalidCredentials and leaves stored state alone.
func (c *HTTPClient) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var resp tokenResponse
	err := c.do(ctx, call{
		path: "/api/token",
		opts: RequestOptions{
			Method: http.MethodPost,
			Body:   strings.NewReader(form.Encode()),
			Header: http.Header{"Content-Type": {"application/x-www-form-urlencoded"}},
		},
		out:       &resp,
		anonymous: true,
		statusKind: map[int]error{
			http.StatusBadRequest:   ErrInvalidCredentials,
			http.StatusUnauthorized: ErrInvalidCredentials,
		},
		fallbackMessage: "Login failed",
	})
	if err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", errors.New("login response carried no access_token")
	}
	return resp.AccessToken, nil
}

// Ping checks that the API answers GET /api/ping.
func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, call{path: "/api/ping", anonymous: true})
}

func jobPath(id models.JobID) string {
	return "/api/jobs/" + url.PathEscape(id.String())
}

// ListJobs fetches the whole collection. The result replaces, never merges
// with, anything fetched before.
func (c *HTTPClient) ListJobs(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	if err := c.Request(ctx, "/api/jobs", RequestOptions{}, &jobs); err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []models.Job{}
	}
	return jobs, nil
}

func (c *HTTPClient) GetJob(ctx context.Context, id models.JobID) (*models.Job, error) {
	var job models.Job
	if err := c.Request(ctx, jobPath(id), RequestOptions{}, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// CreateJob posts the six business fields; the server assigns the id and
// timestamps and echoes the stored record.
func (c *HTTPClient) CreateJob(ctx context.Context, in models.JobInput) (*models.Job, error) {
	var job models.Job
	if err := c.Request(ctx, "/api/jobs", RequestOptions{Method: http.MethodPost, Body: in}, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *HTTPClient) UpdateJob(ctx context.Context, id models.JobID, in models.JobInput) (*models.Job, error) {
	var job models.Job
	if err := c.Request(ctx, jobPath(id), RequestOptions{Method: http.MethodPut, Body: in}, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *HTTPClient) DeleteJob(ctx context.Context, id models.JobID) error {
	return c.Request(ctx, jobPath(id), RequestOptions{Method: http.MethodDelete}, nil)
}

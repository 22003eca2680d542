package client

import (
	"context"

	"github.com/jobtracker/jobtracker/internal/client/models"
)

// Client is the API surface used by the services.
type Client interface {
	Login(ctx context.Context, username, password string) (string, error)
	Ping(ctx context.Context) error
	ListJobs(ctx context.Context) ([]models.Job, error)
	GetJob(ctx context.Context, id models.JobID) (*models.Job, error)
	CreateJob(ctx context.Context, in models.JobInput) (*models.Job, error)
	UpdateJob(ctx context.Context, id models.JobID, in models.JobInput) (*models.Job, error)
	DeleteJob(ctx context.Context, id models.JobID) error
	Close() error
}

// Session is what HTTPClient needs from session.Session.
type Session interface {
	Token(ctx context.Context) (string, error)
	Expire(ctx context.Context) error
	Context() context.Context
}

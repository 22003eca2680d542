package services

import (
	"context"
	"time"

	"github.com/jobtracker/jobtracker/internal/client/models"
)

// ---- fake client ----

// fakeClient implements client.Client for unit tests.
type fakeClient struct {
	LoginRet string
	LoginErr error
	PingErr  error
	CloseErr error

	ListRet   []models.Job
	ListErr   error
	GetRet    *models.Job
	GetErr    error
	CreateRet *models.Job
	CreateErr error
	UpdateRet *models.Job
	UpdateErr error
	DeleteErr error

	LastLoginUser     string
	LastLoginPassword string
	LastCreateInput   models.JobInput
	LastUpdateID      models.JobID
	LastUpdateInput   models.JobInput
	LastDeleteID      models.JobID

	Calls []string
}

func (f *fakeClient) Login(ctx context.Context, username, password string) (string, error) {
	f.Calls = append(f.Calls, "login")
	f.LastLoginUser = username
	f.LastLoginPassword = password
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Ping(ctx context.Context) error {
	f.Calls = append(f.Calls, "ping")
	return f.PingErr
}

func (f *fakeClient) ListJobs(ctx context.Context) ([]models.Job, error) {
	f.Calls = append(f.Calls, "list")
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return append([]models.Job{}, f.ListRet...), nil
}

func (f *fakeClient) GetJob(ctx context.Context, id models.JobID) (*models.Job, error) {
	f.Calls = append(f.Calls, "get")
	return f.GetRet, f.GetErr
}

func (f *fakeClient) CreateJob(ctx context.Context, in models.JobInput) (*models.Job, error) {
	f.Calls = append(f.Calls, "create")
	f.LastCreateInput = in
	return f.CreateRet, f.CreateErr
}

func (f *fakeClient) UpdateJob(ctx context.Context, id models.JobID, in models.JobInput) (*models.Job, error) {
	f.Calls = append(f.Calls, "update")
	f.LastUpdateID = id
	f.LastUpdateInput = in
	return f.UpdateRet, f.UpdateErr
}

func (f *fakeClient) DeleteJob(ctx context.Context, id models.JobID) error {
	f.Calls = append(f.Calls, "delete")
	f.LastDeleteID = id
	return f.DeleteErr
}

func (f *fakeClient) Close() error { return f.CloseErr }

// ---- fake session ----

type fakeSession struct {
	Token    string
	User     string
	Exp      time.Time
	HasExp   bool
	Authed   bool
	SetErr   error
	ClearErr error

	Cleared bool
}

func (s *fakeSession) Establish(ctx context.Context, token, username string) error {
	if s.SetErr != nil {
		return s.SetErr
	}
	s.Token, s.User, s.Authed = token, username, true
	return nil
}

func (s *fakeSession) Clear(ctx context.Context) error {
	if s.ClearErr != nil {
		return s.ClearErr
	}
	s.Token, s.User, s.Authed, s.Cleared = "", "", false, true
	return nil
}

func (s *fakeSession) IsAuthenticated(ctx context.Context) bool { return s.Authed }

func (s *fakeSession) Username(ctx context.Context) (string, error) { return s.User, nil }

func (s *fakeSession) ExpiresAt(ctx context.Context) (time.Time, bool) { return s.Exp, s.HasExp }

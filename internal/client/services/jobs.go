package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jobtracker/jobtracker/internal/client/client"
	"github.com/jobtracker/jobtracker/internal/client/models"
)

// JobService is the job collection as the CLI sees it: a snapshot of the
// last successful list, refreshed after every mutation.
type JobService interface {
	// Refresh fetches the collection and replaces the snapshot.
	Refresh(ctx context.Context) ([]models.Job, error)
	// Snapshot returns the last fetched collection without a network call.
	Snapshot() []models.Job
	// Search filters the snapshot by job number, client name or reference.
	Search(term string) []models.Job
	// Resolve expands a unique id prefix from the snapshot to a full id.
	Resolve(ref string) models.JobID
	Get(ctx context.Context, id models.JobID) (*models.Job, error)
	Create(ctx context.Context, in models.JobInput) (*models.Job, error)
	Update(ctx context.Context, id models.JobID, in models.JobInput) (*models.Job, error)
	Delete(ctx context.Context, id models.JobID) error
}

type jobService struct {
	client client.Client

	mu   sync.RWMutex
	jobs []models.Job
}

func NewJobService(c client.Client) JobService {
	return &jobService{client: c}
}

func (s *jobService) Refresh(ctx context.Context) ([]models.Job, error) {
	jobs, err := s.client.ListJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list jobs error: %w", err)
	}

	s.mu.Lock()
	s.jobs = jobs
	s.mu.Unlock()

	return jobs, nil
}

func (s *jobService) Snapshot() []models.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jobs
}

func (s *jobService) Search(term string) []models.Job {
	return models.FilterJobs(s.Snapshot(), strings.TrimSpace(term))
}

func (s *jobService) Resolve(ref string) models.JobID {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}

	var match models.JobID
	for _, j := range s.Snapshot() {
		id := j.ID.String()
		if id == ref {
			return j.ID
		}
		if strings.HasPrefix(id, ref) {
			if match != "" {
				// ambiguous
				return models.JobID(ref)
			}
			match = j.ID
		}
	}
	if match != "" {
		return match
	}
	return models.JobID(ref)
}

func (s *jobService) Get(ctx context.Context, id models.JobID) (*models.Job, error) {
	job, err := s.client.GetJob(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job error: %w", err)
	}
	return job, nil
}

// Create validates in and posts it. After the server accepts it the
// snapshot is refetched; a failed refetch is returned alongside the
// created job.
func (s *jobService) Create(ctx context.Context, in models.JobInput) (*models.Job, error) {
	in = in.Normalized()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	job, err := s.client.CreateJob(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create job error: %w", err)
	}
	return job, s.refreshAfterMutation(ctx)
}

func (s *jobService) Update(ctx context.Context, id models.JobID, in models.JobInput) (*models.Job, error) {
	in = in.Normalized()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	job, err := s.client.UpdateJob(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("update job error: %w", err)
	}
	return job, s.refreshAfterMutation(ctx)
}

func (s *jobService) Delete(ctx context.Context, id models.JobID) error {
	if err := s.client.DeleteJob(ctx, id); err != nil {
		return fmt.Errorf("delete job error: %w", err)
	}
	return s.refreshAfterMutation(ctx)
}

func (s *jobService) refreshAfterMutation(ctx context.Context) error {
	if _, err := s.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh after save: %w", err)
	}
	return nil
}

package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jobtracker/jobtracker/internal/client/apitest"
	"github.com/jobtracker/jobtracker/internal/client/client"
	"github.com/jobtracker/jobtracker/internal/client/config"
	"github.com/jobtracker/jobtracker/internal/client/services"
	"github.com/jobtracker/jobtracker/internal/client/session"
	"github.com/jobtracker/jobtracker/internal/client/storage"
	"github.com/jobtracker/jobtracker/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stack struct {
	api  *apitest.Server
	sess *session.Session
	app  *App
	out  *bytes.Buffer
}

// newStack wires the real session, client and services against the fake
// API, the way NewApp does, with scripted input.
func newStack(t *testing.T, input io.Reader) *stack {
	t.Helper()
	silenceREPL(t)
	stubPasswordFromReader(t)

	api := apitest.New(t)
	api.AddUser("alice", "s3cret")
	ctx := context.Background()

	db, err := storage.Open(ctx, filepath.Join(t.TempDir(), "cli.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	sess := session.New(db)

	c, err := client.New(api.BaseURL(), sess, client.WithTimeout(5*time.Second))
	require.NoError(t, err)

	cfg := &config.Config{APIBaseURL: api.BaseURL()}
	var out bytes.Buffer
	app := newApp(cfg,
		services.NewAuthService(c, sess),
		services.NewJobService(c),
		sess, bufio.NewReader(input), &out, logging.Discard())

	return &stack{api: api, sess: sess, app: app, out: &out}
}

func script(lines ...string) io.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

func TestEndToEnd_LoginCreateListDelete(t *testing.T) {
	s := newStack(t, script(
		"alice", "s3cret",
		"add", "J-100", "Acme", "Kitchen", "120.5", "8", "950",
		"list",
		"list beta",
		"exit",
	))

	s.app.Run(context.Background())

	out := s.out.String()
	assert.Contains(t, out, "Logged in as alice")
	assert.Contains(t, out, "Created job")
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "1 job\n")
	assert.Contains(t, out, "No jobs found")

	jobs := s.api.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "J-100", jobs[0].JobNumber)
	assert.True(t, s.sess.IsAuthenticated(context.Background()))
}

func TestEndToEnd_ValidationNeverReachesServer(t *testing.T) {
	s := newStack(t, script(
		"alice", "s3cret",
		"add", "J-1", "   ", "Ref", "1", "1", "1",
		"exit",
	))

	s.app.Run(context.Background())

	assert.Contains(t, s.out.String(), "invalid job: clientName is required")
	for _, r := range s.api.Requests() {
		assert.NotEqual(t, "POST /api/jobs", r.Method+" "+r.Path)
	}
}

func TestEndToEnd_RevokedTokenReturnsToLogin(t *testing.T) {
	s := newStack(t, script(
		"list",
		"alice", "s3cret",
		"list",
		"exit",
	))
	ctx := context.Background()

	// A stored session from an earlier run that the server no longer accepts.
	require.NoError(t, s.sess.Establish(ctx, s.api.MintToken("alice", time.Hour), "alice"))
	s.api.SeedJobs(sampleJob)
	s.api.RevokeTokens()

	s.app.Run(ctx)

	out := s.out.String()
	assert.Contains(t, out, "Resumed session for alice")
	assert.Contains(t, out, "Error: session expired")
	assert.Contains(t, out, "Session expired, please log in again.")
	assert.Contains(t, out, "Logged in as alice")
	assert.Contains(t, out, "1 job\n")

	var bearers []string
	for _, r := range s.api.Requests() {
		if r.Path == "/api/jobs" {
			bearers = append(bearers, r.Authorization)
		}
	}
	require.Len(t, bearers, 2, "stale token once, fresh token once")
	assert.NotEqual(t, bearers[0], bearers[1])
	assert.True(t, s.sess.IsAuthenticated(ctx))
}

func TestEndToEnd_LocallyExpiredTokenPromptsLogin(t *testing.T) {
	s := newStack(t, script("alice", "wrong", "exit"))
	ctx := context.Background()
	require.NoError(t, s.sess.Establish(ctx, s.api.MintToken("alice", -time.Minute), "alice"))

	s.app.Run(ctx)

	out := s.out.String()
	assert.NotContains(t, out, "Resumed session")
	assert.Contains(t, out, "Login failed: Incorrect username or password")
	assert.False(t, s.sess.IsAuthenticated(ctx))
}

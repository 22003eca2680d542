package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/jobtracker/jobtracker/internal/client/config"
	"github.com/jobtracker/jobtracker/internal/client/models"
	"github.com/jobtracker/jobtracker/internal/client/services"
	"github.com/jobtracker/jobtracker/internal/logging"
)

// ------------ helpers ------------

func readerFromLines(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func newTestApp(t *testing.T, as services.AuthService, js services.JobService, r *bufio.Reader) (*App, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	cfg := &config.Config{APIBaseURL: "http://api.test/api"}
	return newApp(cfg, as, js, &fakeEpoch{ctx: context.Background()}, r, &out, logging.Discard()), &out
}

// silenceREPL stubs the REPL print seams and returns what they printed.
func silenceREPL(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	origP, origPl := printFn, printlnFn
	printFn = func(a ...any) (int, error) { return fmt.Fprint(&buf, a...) }
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(&buf, a...) }
	t.Cleanup(func() {
		printFn = origP
		printlnFn = origPl
	})
	return &buf
}

// stubPasswordFromReader makes getPassword read a plain line, as it does for
// piped input.
func stubPasswordFromReader(t *testing.T) {
	t.Helper()
	orig := getPassword
	getPassword = func(r *bufio.Reader, _ io.Writer) ([]byte, error) {
		line, err := readLine(r)
		return []byte(line), err
	}
	t.Cleanup(func() { getPassword = orig })
}

// ------------ fakes ------------

type fakeEpoch struct {
	ctx context.Context
}

func (f *fakeEpoch) Context() context.Context { return f.ctx }

type fakeAuth struct {
	loginUser string
	loginPass []byte
	loginErr  error
	logins    int

	logoutCalled bool
	logoutErr    error

	authed bool
	status services.AuthStatus

	pingErr   error
	pings     int
	closeCall bool
}

func (f *fakeAuth) Login(_ context.Context, user string, pass []byte) error {
	f.logins++
	f.loginUser, f.loginPass = user, append([]byte(nil), pass...)
	if f.loginErr != nil {
		return f.loginErr
	}
	f.authed = true
	return nil
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logoutCalled = true
	if f.logoutErr != nil {
		return f.logoutErr
	}
	f.authed = false
	return nil
}

func (f *fakeAuth) IsAuthenticated(context.Context) bool { return f.authed }

func (f *fakeAuth) Status(context.Context) services.AuthStatus {
	st := f.status
	st.Authenticated = f.authed
	return st
}

func (f *fakeAuth) Ping(context.Context) error {
	f.pings++
	return f.pingErr
}

func (f *fakeAuth) Close(context.Context) error {
	f.closeCall = true
	return nil
}

type fakeJobs struct {
	jobs []models.Job

	refreshErr error
	refreshes  int

	getRet *models.Job
	getErr error
	getID  models.JobID

	createIn  models.JobInput
	createRet *models.Job
	createErr error

	updateID  models.JobID
	updateIn  models.JobInput
	updateRet *models.Job
	updateErr error

	deleteID  models.JobID
	deleteErr error
	deletes   int
}

func (f *fakeJobs) Refresh(context.Context) ([]models.Job, error) {
	f.refreshes++
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.jobs, nil
}

func (f *fakeJobs) Snapshot() []models.Job { return f.jobs }

func (f *fakeJobs) Search(term string) []models.Job { return models.FilterJobs(f.jobs, term) }

func (f *fakeJobs) Resolve(ref string) models.JobID {
	for _, j := range f.jobs {
		if strings.HasPrefix(j.ID.String(), ref) {
			return j.ID
		}
	}
	return models.JobID(ref)
}

func (f *fakeJobs) Get(_ context.Context, id models.JobID) (*models.Job, error) {
	f.getID = id
	return f.getRet, f.getErr
}

func (f *fakeJobs) Create(_ context.Context, in models.JobInput) (*models.Job, error) {
	f.createIn = in
	return f.createRet, f.createErr
}

func (f *fakeJobs) Update(_ context.Context, id models.JobID, in models.JobInput) (*models.Job, error) {
	f.updateID, f.updateIn = id, in
	return f.updateRet, f.updateErr
}

func (f *fakeJobs) Delete(_ context.Context, id models.JobID) error {
	f.deletes++
	f.deleteID = id
	return f.deleteErr
}

var sampleJob = models.Job{
	ID:          "3f2a9c10-0000-4000-8000-000000000001",
	JobNumber:   "J-100",
	ClientName:  "Acme",
	JobRef:      "Kitchen",
	M2Area:      120.5,
	HoursWorked: 8,
	DesignFee:   950,
	CreatedAt:   time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
	UpdatedAt:   time.Date(2026, 10, 2, 9, 0, 0, 0, time.UTC),
}

package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jobtracker/jobtracker/internal/client/client"
	"github.com/jobtracker/jobtracker/internal/client/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsLoggedIn(t *testing.T) {
	a, _ := newTestApp(t, &fakeAuth{}, &fakeJobs{}, readerFromLines())
	assert.False(t, a.isLoggedIn())

	a.setLoggedIn("alice")
	assert.True(t, a.isLoggedIn())

	a.setLoggedOut()
	assert.False(t, a.isLoggedIn())
}

func TestGetStatus(t *testing.T) {
	a, _ := newTestApp(t, &fakeAuth{}, &fakeJobs{}, readerFromLines())
	assert.Equal(t, "", a.getStatus())

	a.setMode(context.Background(), ModeOffline)
	assert.Equal(t, "(offline) ", a.getStatus())

	a.setLoggedIn("alice")
	a.setMode(context.Background(), ModeOnline)
	assert.Equal(t, "(alice online) ", a.getStatus())
}

func TestProbe_TogglesMode(t *testing.T) {
	f := &fakeAuth{}
	a, _ := newTestApp(t, f, &fakeJobs{}, readerFromLines())
	ctx := context.Background()

	a.probe(ctx)
	assert.Equal(t, ModeOnline, a.currentMode())

	f.pingErr = client.ErrUnavailable
	a.probe(ctx)
	assert.Equal(t, ModeOffline, a.currentMode())

	f.pingErr = nil
	a.probe(ctx)
	assert.Equal(t, ModeOnline, a.currentMode())
	assert.Equal(t, 3, f.pings)
}

func TestStartOnlineStatusWatcher_StopsWithContext(t *testing.T) {
	f := &fakeAuth{pingErr: errors.New("down")}
	a, _ := newTestApp(t, f, &fakeJobs{}, readerFromLines())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.StartOnlineStatusWatcher(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return a.currentMode() == ModeOffline }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestStartOnlineStatusWatcher_ZeroIntervalReturns(t *testing.T) {
	a, _ := newTestApp(t, &fakeAuth{}, &fakeJobs{}, readerFromLines())
	a.StartOnlineStatusWatcher(context.Background(), 0)
}

func TestCheckSession_EpochCanceled(t *testing.T) {
	f := &fakeAuth{authed: true}
	a, out := newTestApp(t, f, &fakeJobs{}, readerFromLines("bob", "pw"))
	stubPasswordFromReader(t)

	epoch, cancel := context.WithCancel(context.Background())
	a.session = &fakeEpoch{ctx: epoch}
	a.setLoggedIn("alice")

	a.checkSession(context.Background())
	assert.Equal(t, 0, f.logins, "live session needs no login")

	cancel()
	a.session = &fakeEpoch{ctx: context.Background()}
	a.checkSession(context.Background())

	assert.Contains(t, out.String(), "Session expired, please log in again.")
	assert.Equal(t, 1, f.logins)
	assert.Equal(t, "bob", f.loginUser)
	assert.True(t, a.isLoggedIn())
	assert.Equal(t, "(bob online) ", a.getStatus())
}

func TestCheckSession_TokenExpiredLocally(t *testing.T) {
	f := &fakeAuth{authed: true}
	a, out := newTestApp(t, f, &fakeJobs{}, readerFromLines("alice", "pw"))
	stubPasswordFromReader(t)
	a.setLoggedIn("alice")

	f.authed = false
	f.loginErr = client.ErrInvalidCredentials
	a.checkSession(context.Background())

	assert.Contains(t, out.String(), "Session expired")
	assert.Equal(t, 1, f.logins)
	assert.False(t, a.isLoggedIn(), "a failed re-login leaves the user logged out")
}

func TestCheckSession_LoggedOutIsNoop(t *testing.T) {
	f := &fakeAuth{}
	a, out := newTestApp(t, f, &fakeJobs{}, readerFromLines())

	a.checkSession(context.Background())
	assert.Empty(t, out.String())
	assert.Zero(t, f.logins)
}

func TestRun_ClosesServices(t *testing.T) {
	silenceREPL(t)
	f := &fakeAuth{authed: true, status: services.AuthStatus{Username: "alice"}}
	a, out := newTestApp(t, f, &fakeJobs{}, readerFromLines("exit"))

	a.Run(context.Background())

	assert.True(t, f.closeCall)
	assert.Contains(t, out.String(), "Resumed session for alice")
}

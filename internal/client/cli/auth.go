package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jobtracker/jobtracker/internal/client/client"
	"github.com/jobtracker/jobtracker/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// Login prompts the user for credentials and exchanges them for a session
// token. A rejected login prints the server's reason and leaves any stored
// session as it was. The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Login(ctx, userName, password); err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			a.setMode(ctx, ModeOffline)
		}
		a.logger.Info(ctx, "login unsuccessful", "username", userName, "error", err)
		fmt.Fprintf(a.out, "Login failed: %s\n", describeError(err))
		return err
	}

	a.setLoggedIn(userName)
	a.setMode(ctx, ModeOnline)
	a.logger.Info(ctx, "login successful", "username", userName)
	fmt.Fprintf(a.out, "Logged in as %s\n", userName)
	return nil
}

// Logout removes the stored token.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", describeError(err))
		return err
	}
	a.setLoggedOut()
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Status prints who is logged in, until when, and whether the API answers.
func (a *App) Status(ctx context.Context) error {
	st := a.authService.Status(ctx)

	if st.Authenticated {
		fmt.Fprintf(a.out, "Logged in as:  %s\n", st.Username)
		fmt.Fprintf(a.out, "Token expires: %s (in %s)\n",
			st.ExpiresAt.Local().Format(time.DateTime), time.Until(st.ExpiresAt).Round(time.Second))
	} else {
		fmt.Fprintln(a.out, "Not logged in")
	}

	mode := a.currentMode()
	if mode == "" {
		mode = "unknown"
	}
	fmt.Fprintf(a.out, "API:           %s (%s)\n", a.config.APIBaseURL, mode)
	return nil
}

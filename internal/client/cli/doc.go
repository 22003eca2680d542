// Package cli provides the interactive JobTracker command-line client.
//
// It wires configuration, local storage, the API client and services into
// an interactive REPL. Typical flow: resume the stored session or prompt
// for credentials, start a background connectivity watcher, and execute
// user commands.
//
// Key features:
//   - Login / Logout / Status
//   - List jobs with a client-side filter, show a single job
//   - Add, edit and delete jobs
//
// When any request is rejected with 401 the session is cleared and the
// REPL returns to the login prompt before the next command.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli

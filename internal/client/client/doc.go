// Package client talks to the JobTracker REST API.
//
// # Overview
//
// HTTPClient wraps every outbound call with the same contract:
//  1. Logical paths beginning with /api are rewritten onto the configured
//     absolute base URL.
//  2. The bearer token from the session is attached as
//     "Authorization: Bearer <token>" when one exists; otherwise the header
//     is left out entirely.
//  3. 2xx bodies are decoded as JSON. Other statuses become *APIError, with
//     the message taken from the body's "message" or "detail" field, or
//     "HTTP <status>" when the body has neither.
//  4. A 401 expires the session: the token is removed and the session epoch
//     is canceled, which aborts every other request still in flight. The
//     caller gets an error matching ErrSessionExpired.
//
// Nothing is retried, cached or queued.
//
// # Error Handling
//
// Match with errors.Is: ErrUnauthorized, ErrSessionExpired,
// ErrInvalidCredentials, ErrNotFound, ErrUnavailable. Use errors.As to get
// the *APIError with the status code and server message.
package client

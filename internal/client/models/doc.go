// Package models defines the job records exchanged with the JobTracker API
// and the client-side helpers around them: input validation before a
// create/update, and search filtering of a fetched list.
package models

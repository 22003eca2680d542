package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jobtracker/jobtracker/internal/client/client"
	"github.com/jobtracker/jobtracker/internal/client/models"
)

// shortIDLen is how much of a long id the table shows; show/edit/delete
// accept any unique prefix.
const shortIDLen = 8

func shortID(id models.JobID) string {
	s := id.String()
	if len(s) > shortIDLen {
		return s[:shortIDLen]
	}
	return s
}

func printJobs(w io.Writer, jobs []models.Job) {
	if len(jobs) == 0 {
		fmt.Fprintln(w, "No jobs found")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tJOB NO\tCLIENT\tREF\tM2\tHOURS\tFEE\tUPDATED")
	for _, j := range jobs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(j.ID), j.JobNumber, j.ClientName, j.JobRef,
			j.M2Area, j.HoursWorked, j.DesignFee, formatTime(j.UpdatedAt))
	}
	_ = tw.Flush()

	if len(jobs) == 1 {
		fmt.Fprintln(w, "1 job")
	} else {
		fmt.Fprintf(w, "%d jobs\n", len(jobs))
	}
}

func printJob(w io.Writer, j *models.Job) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", j.ID)
	fmt.Fprintf(tw, "Job number:\t%s\n", j.JobNumber)
	fmt.Fprintf(tw, "Client:\t%s\n", j.ClientName)
	fmt.Fprintf(tw, "Reference:\t%s\n", j.JobRef)
	fmt.Fprintf(tw, "Area (m2):\t%s\n", j.M2Area)
	fmt.Fprintf(tw, "Hours worked:\t%s\n", j.HoursWorked)
	fmt.Fprintf(tw, "Design fee:\t%s\n", j.DesignFee)
	fmt.Fprintf(tw, "Created:\t%s\n", formatTime(j.CreatedAt))
	fmt.Fprintf(tw, "Updated:\t%s\n", formatTime(j.UpdatedAt))
	_ = tw.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}

// describeError turns an error from the services into one line for the
// user.
func describeError(err error) string {
	var verr *models.ValidationError
	var apiErr *client.APIError

	switch {
	case errors.As(err, &verr):
		parts := make([]string, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			parts = append(parts, f.Field+" "+f.Reason)
		}
		return "invalid job: " + strings.Join(parts, ", ")
	case errors.Is(err, client.ErrSessionExpired):
		return "session expired"
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable, try again later"
	default:
		return err.Error()
	}
}

package cli

import (
	"context"
	"fmt"

	"github.com/jobtracker/jobtracker/internal/client/models"
)

// List fetches the jobs and prints those matching term (all when empty).
func (a *App) List(ctx context.Context, term string) error {
	if _, err := a.jobService.Refresh(ctx); err != nil {
		return a.fail(ctx, err)
	}
	printJobs(a.out, a.jobService.Search(term))
	return nil
}

func (a *App) Show(ctx context.Context, ref string) error {
	job, err := a.jobService.Get(ctx, a.jobService.Resolve(ref))
	if err != nil {
		return a.fail(ctx, err)
	}
	printJob(a.out, job)
	return nil
}

// Add prompts for the six job fields and creates the job.
func (a *App) Add(ctx context.Context) error {
	in, err := a.inputJob(nil)
	if err != nil {
		return a.fail(ctx, err)
	}

	job, err := a.jobService.Create(ctx, in)
	if job != nil {
		fmt.Fprintf(a.out, "Created job %s\n", job.ID)
	}
	if err != nil {
		return a.fail(ctx, err)
	}
	return nil
}

// Edit loads the job, prompts for new values with the current ones as
// defaults, and saves it.
func (a *App) Edit(ctx context.Context, ref string) error {
	id := a.jobService.Resolve(ref)
	current, err := a.jobService.Get(ctx, id)
	if err != nil {
		return a.fail(ctx, err)
	}

	cur := current.Input()
	in, err := a.inputJob(&cur)
	if err != nil {
		return a.fail(ctx, err)
	}

	job, err := a.jobService.Update(ctx, id, in)
	if job != nil {
		fmt.Fprintf(a.out, "Updated job %s\n", job.ID)
	}
	if err != nil {
		return a.fail(ctx, err)
	}
	return nil
}

func (a *App) Delete(ctx context.Context, ref string) error {
	id := a.jobService.Resolve(ref)

	ok, err := Confirm(a.reader, fmt.Sprintf("Delete job %s?", id), a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	if err := a.jobService.Delete(ctx, id); err != nil {
		return a.fail(ctx, err)
	}
	fmt.Fprintf(a.out, "Deleted job %s\n", id)
	return nil
}

func (a *App) fail(ctx context.Context, err error) error {
	a.logger.Debug(ctx, "command failed", "error", err)
	fmt.Fprintf(a.out, "Error: %s\n", describeError(err))
	return err
}

// inputJob prompts for every business field. With current set, an empty
// answer keeps the current value. Unparseable numbers are reported together
// as a *models.ValidationError.
func (a *App) inputJob(current *models.JobInput) (models.JobInput, error) {
	var in models.JobInput

	text := func(prompt, cur string) (string, error) {
		if current == nil {
			return getSimpleText(a.reader, prompt, a.out)
		}
		return GetTextWithDefault(a.reader, prompt, cur, a.out)
	}

	var cur models.JobInput
	if current != nil {
		cur = *current
	}

	var err error
	if in.JobNumber, err = text("Job number", cur.JobNumber); err != nil {
		return in, err
	}
	if in.ClientName, err = text("Client name", cur.ClientName); err != nil {
		return in, err
	}
	if in.JobRef, err = text("Job reference", cur.JobRef); err != nil {
		return in, err
	}

	var bad []models.FieldError
	numbers := []struct {
		field  string
		prompt string
		cur    models.Decimal
		dst    *models.Decimal
	}{
		{"m2Area", "Area (m2)", cur.M2Area, &in.M2Area},
		{"hoursWorked", "Hours worked", cur.HoursWorked, &in.HoursWorked},
		{"designFee", "Design fee", cur.DesignFee, &in.DesignFee},
	}
	for _, n := range numbers {
		raw, err := text(n.prompt, n.cur.String())
		if err != nil {
			return in, err
		}
		d, err := models.ParseDecimal(raw)
		if err != nil {
			bad = append(bad, models.FieldError{Field: n.field, Reason: err.Error()})
			continue
		}
		*n.dst = d
	}
	if len(bad) > 0 {
		return in, &models.ValidationError{Fields: bad}
	}
	return in, nil
}

package models

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// FieldError names one invalid JobInput field by its JSON name.
type FieldError struct {
	Field  string
	Reason string
}

// ValidationError lists every invalid field of a JobInput. It is returned
// before any network call is made.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Reason)
	}
	return "invalid job: " + strings.Join(parts, "; ")
}

// Has reports whether field is among the invalid ones.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Validate checks that all six business fields are present: text fields
// non-blank, numbers finite.
func (in JobInput) Validate() error {
	var errs []FieldError

	text := map[string]string{
		"jobNumber":  in.JobNumber,
		"clientName": in.ClientName,
		"jobRef":     in.JobRef,
	}
	for field, v := range text {
		if strings.TrimSpace(v) == "" {
			errs = append(errs, FieldError{Field: field, Reason: "is required"})
		}
	}

	numbers := map[string]Decimal{
		"m2Area":      in.M2Area,
		"hoursWorked": in.HoursWorked,
		"designFee":   in.DesignFee,
	}
	for field, v := range numbers {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			errs = append(errs, FieldError{Field: field, Reason: fmt.Sprintf("must be a number, got %v", f)})
		}
	}

	if len(errs) == 0 {
		return nil
	}
	sort.Slice(errs, func(i, j int) bool { return fieldOrder[errs[i].Field] < fieldOrder[errs[j].Field] })
	return &ValidationError{Fields: errs}
}

var fieldOrder = map[string]int{
	"jobNumber":   0,
	"clientName":  1,
	"jobRef":      2,
	"m2Area":      3,
	"hoursWorked": 4,
	"designFee":   5,
}

// Normalized returns a copy with surrounding whitespace trimmed from the
// text fields.
func (in JobInput) Normalized() JobInput {
	in.JobNumber = strings.TrimSpace(in.JobNumber)
	in.ClientName = strings.TrimSpace(in.ClientName)
	in.JobRef = strings.TrimSpace(in.JobRef)
	return in
}

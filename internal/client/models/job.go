package models

import (
	"fmt"
	"time"
)

// Job mirrors one record of the remote /api/jobs collection. The server owns
// ID, CreatedAt and UpdatedAt.
type Job struct {
	ID          JobID     `json:"id"`
	JobNumber   string    `json:"jobNumber"`
	ClientName  string    `json:"clientName"`
	JobRef      string    `json:"jobRef"`
	M2Area      Decimal   `json:"m2Area"`
	HoursWorked Decimal   `json:"hoursWorked"`
	DesignFee   Decimal   `json:"designFee"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Input returns the business fields of j, ready to be edited and sent back
// with an update.
func (j Job) Input() JobInput {
	return JobInput{
		JobNumber:   j.JobNumber,
		ClientName:  j.ClientName,
		JobRef:      j.JobRef,
		M2Area:      j.M2Area,
		HoursWorked: j.HoursWorked,
		DesignFee:   j.DesignFee,
	}
}

func (j Job) String() string {
	return fmt.Sprintf("%s  %s  %s  %s", j.ID, j.JobNumber, j.ClientName, j.JobRef)
}

// JobInput is the body of POST /api/jobs and PUT /api/jobs/:id.
type JobInput struct {
	JobNumber   string  `json:"jobNumber"`
	ClientName  string  `json:"clientName"`
	JobRef      string  `json:"jobRef"`
	M2Area      Decimal `json:"m2Area"`
	HoursWorked Decimal `json:"hoursWorked"`
	DesignFee   Decimal `json:"designFee"`
}

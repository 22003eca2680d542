package models

import "strings"

// FilterJobs keeps the jobs whose job number, client name or job reference
// contains term, ignoring case. An empty term returns jobs unchanged.
func FilterJobs(jobs []Job, term string) []Job {
	if term == "" {
		return jobs
	}
	needle := strings.ToLower(term)

	out := make([]Job, 0, len(jobs))
	for _, j := range jobs {
		if matches(j, needle) {
			out = append(out, j)
		}
	}
	return out
}

func matches(j Job, needle string) bool {
	for _, field := range []string{j.JobNumber, j.ClientName, j.JobRef} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

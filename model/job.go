package model //import "github.com/hondana-dev/hondana/model"

const (
	JobStatusPending = "pending"
	JobStatusRunning = "running"
	JobStatusDone    = "done"
)

// Job is a background cache-refresh task. Pushed after a mutation commits
// so the invalidated view is warm before the next read.
type Job struct {
	View   string
	Status string
}

type JobList []Job

func (j JobList) Len() int {
	return len(j)
}

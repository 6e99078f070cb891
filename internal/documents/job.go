package documents

import (
	"time"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

// JobArgs identifies an availability check of one canonical document URL.
type JobArgs struct {
	// URL is unique so River keeps at most one check per URL.
	URL string `json:"url" river:"unique"`

	maxAttempts     int
	uniqueJobPeriod time.Duration
}

// Kind returns the River job kind used to register and dispatch the check worker.
func (args JobArgs) Kind() string { return "CheckDocumentJob" }

// InsertOpts keeps one job per URL in any state for uniqueJobPeriod.
func (args JobArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		MaxAttempts: args.maxAttempts,
		UniqueOpts: river.UniqueOpts{
			ByArgs:   true,
			ByPeriod: args.uniqueJobPeriod,
			ByState: []rivertype.JobState{
				rivertype.JobStateAvailable,
				rivertype.JobStateCompleted,
				rivertype.JobStatePending,
				rivertype.JobStateRunning,
				rivertype.JobStateRetryable,
				rivertype.JobStateScheduled,
			},
		},
	}
}

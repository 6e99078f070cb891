package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/riverqueue/river"
)

// AddJob enqueues a River job. Inside a transaction the job is inserted with
// InsertTx and only becomes visible once the transaction commits. It reports
// false when river skipped the insert as a duplicate unique job.
func (p *PgSQL) AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error) {
	if p.jobs == nil {
		return false, fmt.Errorf("could not insert job: %w", errNoJobClient)
	}

	if tx, ok := p.DB.(*sql.Tx); ok {
		job, err := p.jobs.InsertTx(ctx, tx, args, opts)
		if err != nil {
			return false, fmt.Errorf("could not insert job: %w", err)
		}

		return !job.UniqueSkippedAsDuplicate, nil
	}

	job, err := p.jobs.Insert(ctx, args, opts)
	if err != nil {
		return false, fmt.Errorf("could not insert job: %w", err)
	}

	return !job.UniqueSkippedAsDuplicate, nil
}

// Package committer implements the unit-of-work used by every write path.
//
// A unit of work is an explicit Tx value handed down from the entry point to
// every repository call. The entry point that opens the unit of work owns
// commit and rollback; callees that receive a non-nil parent join it and never
// commit on their own.
//
// # Usage Pattern
//
//	err := uow.Do(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
//	    // 1. read and validate through repositories
//	    v, err := values.GetByID(ctx, tx, id)
//	    if err != nil {
//	        return err
//	    }
//
//	    // 2. write rows (DML, visible to later reads in the same tx)
//	    if err := values.Update(ctx, tx, v, changes); err != nil {
//	        return err
//	    }
//
//	    // 3. enqueue write-only records (jobs, notes) as buffered mutations
//	    _, err = queue.PushUpdate(ctx, tx, domain.EntityProduct, v.ProductID, nil, "", actorID)
//	    return err
//	})
//
// Returning an error from fn rolls back the row writes and the buffered
// mutations together.
package committer

import (
	"cloud.google.com/go/spanner"
)

// CommitPlan collects write-only Spanner mutations for one unit of work.
// The plan is flushed with BufferWrite right before the transaction commits.
type CommitPlan struct {
	mutations []*spanner.Mutation
}

// NewPlan creates a new empty CommitPlan.
func NewPlan() *CommitPlan {
	return &CommitPlan{
		mutations: make([]*spanner.Mutation, 0),
	}
}

// Add adds a mutation to the plan.
// Nil mutations are silently ignored for convenience.
func (cp *CommitPlan) Add(mut *spanner.Mutation) {
	if mut != nil {
		cp.mutations = append(cp.mutations, mut)
	}
}

// AddMultiple adds multiple mutations to the plan.
func (cp *CommitPlan) AddMultiple(muts []*spanner.Mutation) {
	for _, mut := range muts {
		cp.Add(mut)
	}
}

// Mutations returns all collected mutations.
func (cp *CommitPlan) Mutations() []*spanner.Mutation {
	return cp.mutations
}

// IsEmpty returns true if the plan has no mutations.
func (cp *CommitPlan) IsEmpty() bool {
	return len(cp.mutations) == 0
}

// Count returns the number of mutations in the plan.
func (cp *CommitPlan) Count() int {
	return len(cp.mutations)
}

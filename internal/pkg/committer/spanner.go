package committer

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
)

// Reader is the query surface shared by Spanner read-only and read-write
// transactions.
type Reader interface {
	Query(ctx context.Context, statement spanner.Statement) *spanner.RowIterator
	ReadRow(ctx context.Context, table string, key spanner.Key, columns []string) (*spanner.Row, error)
}

// SpannerTx is a unit of work backed by a Spanner transaction.
type SpannerTx struct {
	*Scope

	// RW is nil for read-only units of work.
	RW *spanner.ReadWriteTransaction

	reader Reader
	plan   *CommitPlan
}

// Reader returns the transaction to query through.
func (t *SpannerTx) Reader() Reader {
	return t.reader
}

// Buffer adds write-only mutations that are committed with the unit of work.
func (t *SpannerTx) Buffer(muts ...*spanner.Mutation) error {
	if t.RW == nil {
		return fmt.Errorf("cannot buffer mutations in a read-only transaction")
	}
	t.plan.AddMultiple(muts)
	return nil
}

// Plan returns the buffered mutations.
func (t *SpannerTx) Plan() *CommitPlan {
	return t.plan
}

// Committer provides Spanner-backed units of work.
type Committer struct {
	client *spanner.Client
}

// NewCommitter creates a new Committer.
func NewCommitter(client *spanner.Client) *Committer {
	return &Committer{client: client}
}

// Do runs fn in a read-write transaction, or joins parent.
//
// Spanner may retry the transaction function after an abort, so fn must not
// keep state across attempts; each attempt gets a fresh scope and plan.
func (c *Committer) Do(ctx context.Context, parent Tx, fn func(ctx context.Context, tx Tx) error) error {
	if parent != nil {
		return fn(ctx, parent)
	}

	var last *SpannerTx
	_, err := c.client.ReadWriteTransaction(ctx, func(ctx context.Context, rw *spanner.ReadWriteTransaction) error {
		tx := &SpannerTx{
			Scope:  NewScope(),
			RW:     rw,
			reader: rw,
			plan:   NewPlan(),
		}
		last = tx
		if err := fn(ctx, tx); err != nil {
			return err
		}
		if tx.plan.IsEmpty() {
			return nil
		}
		return rw.BufferWrite(tx.plan.Mutations())
	})
	if last != nil {
		last.RunAfter(context.WithoutCancel(ctx))
	}
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// View runs fn in a read-only transaction, or joins parent.
func (c *Committer) View(ctx context.Context, parent Tx, fn func(ctx context.Context, tx Tx) error) error {
	if parent != nil {
		return fn(ctx, parent)
	}

	ro := c.client.ReadOnlyTransaction()
	defer ro.Close()

	tx := &SpannerTx{
		Scope:  NewScope(),
		reader: ro,
		plan:   NewPlan(),
	}
	defer tx.RunAfter(context.WithoutCancel(ctx))
	return fn(ctx, tx)
}

// Spanner unwraps a Tx created by a Committer.
func Spanner(tx Tx) (*SpannerTx, error) {
	st, ok := tx.(*SpannerTx)
	if !ok || st == nil {
		return nil, fmt.Errorf("unit of work %T is not a Spanner transaction", tx)
	}
	return st, nil
}

// Package spanstore implements the repositories of the value pipeline on
// Cloud Spanner.
//
// Rows that later reads of the same unit of work must see (values, products,
// edges) are written with DML. Write-only records (jobs, notes) are buffered
// as mutations on the unit of work's commit plan.
package spanstore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/pav-service/internal/app/pav/contracts"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

var errReadOnly = errors.New("write in a read-only unit of work")

func reader(tx committer.Tx) (committer.Reader, error) {
	st, err := committer.Spanner(tx)
	if err != nil {
		return nil, err
	}
	return st.Reader(), nil
}

func writer(tx committer.Tx) (*committer.SpannerTx, error) {
	st, err := committer.Spanner(tx)
	if err != nil {
		return nil, err
	}
	if st.RW == nil {
		return nil, errReadOnly
	}
	return st, nil
}

// exec runs a DML statement and maps key violations to
// contracts.ErrUniqueViolation.
func exec(ctx context.Context, tx committer.Tx, stmt spanner.Statement) (int64, error) {
	st, err := writer(tx)
	if err != nil {
		return 0, err
	}
	n, err := st.RW.Update(ctx, stmt)
	if spanner.ErrCode(err) == codes.AlreadyExists {
		return 0, contracts.ErrUniqueViolation
	}
	return n, err
}

// queryAll runs stmt and decodes every row into a new T.
func queryAll[T any](ctx context.Context, tx committer.Tx, stmt spanner.Statement) ([]*T, error) {
	r, err := reader(tx)
	if err != nil {
		return nil, err
	}

	iter := r.Query(ctx, stmt)
	defer iter.Stop()

	var out []*T
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate rows: %w", err)
		}
		var data T
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse row: %w", err)
		}
		out = append(out, &data)
	}
	return out, nil
}

// queryOne returns the first row of stmt, or nil.
func queryOne[T any](ctx context.Context, tx committer.Tx, stmt spanner.Statement) (*T, error) {
	rows, err := queryAll[T](ctx, tx, stmt)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

// queryStrings returns the single string column of every row.
func queryStrings(ctx context.Context, tx committer.Tx, stmt spanner.Statement) ([]string, error) {
	r, err := reader(tx)
	if err != nil {
		return nil, err
	}

	iter := r.Query(ctx, stmt)
	defer iter.Stop()

	var out []string
	err = iter.Do(func(row *spanner.Row) error {
		var s string
		if err := row.Columns(&s); err != nil {
			return err
		}
		out = append(out, s)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return out, nil
}

func nullString(p *string) spanner.NullString {
	if p == nil {
		return spanner.NullString{}
	}
	return spanner.NullString{StringVal: *p, Valid: true}
}

func nonEmpty(s string) spanner.NullString {
	return spanner.NullString{StringVal: s, Valid: s != ""}
}

func nullInt(p *int64) spanner.NullInt64 {
	if p == nil {
		return spanner.NullInt64{}
	}
	return spanner.NullInt64{Int64: *p, Valid: true}
}

func nullFloat(p *float64) spanner.NullFloat64 {
	if p == nil {
		return spanner.NullFloat64{}
	}
	return spanner.NullFloat64{Float64: *p, Valid: true}
}

func stringPtr(n spanner.NullString) *string {
	if !n.Valid {
		return nil
	}
	s := n.StringVal
	return &s
}

func intPtr(n spanner.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func floatPtr(n spanner.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

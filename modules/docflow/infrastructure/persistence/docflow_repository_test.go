package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/adi-digital/docscriptum/modules/docflow/domain/aggregates/grd"
	"github.com/adi-digital/docscriptum/modules/docflow/domain/aggregates/request"
	"github.com/adi-digital/docscriptum/pkg/constants"
)

func requestRow(id int64, status string, updatedAt time.Time) []any {
	return []any{
		id, "REQ-2026-A1B2C3", int64(1), int64(2), int64(3),
		"Construction release", "", "", "", "Maria", "maria@example.com",
		status, updatedAt.Add(-time.Hour), updatedAt,
	}
}

func TestRequestRepository_GetByID_MapsRowAndDocuments(t *testing.T) {
	updatedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tx := &stubTx{
		queryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			require.Contains(t, sql, "FROM transmittal_requests")
			require.NotContains(t, sql, "FOR UPDATE")
			require.Equal(t, int64(7), args[0])
			return &stubRows{data: [][]any{requestRow(7, "WAITING_ADM", updatedAt)}, idx: 1}
		},
		queryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			require.Contains(t, sql, "FROM transmittal_request_documents")
			return &stubRows{data: [][]any{
				{int64(7), int64(10), "DOC-001", "Plan", 2, "PDF", 12, 0},
			}}, nil
		},
	}

	repo := NewRequestRepository()
	got, err := repo.GetByID(withTx(tx), 7)
	require.NoError(t, err)
	require.Equal(t, int64(7), got.ID())
	require.Equal(t, request.StatusWaitingAdm, got.Status())
	require.Equal(t, updatedAt, got.UpdatedAt())
	require.Len(t, got.Documents(), 1)
	require.Equal(t, 2, got.Documents()[0].UploadedRevision)
}

func TestRequestRepository_GetByIDForUpdate_LocksRow(t *testing.T) {
	tx := &stubTx{
		queryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			require.Contains(t, sql, "FOR UPDATE")
			return &stubRows{data: [][]any{requestRow(7, "WAITING_ADM", time.Now())}, idx: 1}
		},
		queryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			return &stubRows{}, nil
		},
	}

	_, err := NewRequestRepository().GetByIDForUpdate(withTx(tx), 7)
	require.NoError(t, err)
}

func TestRequestRepository_GetByID_NotFound(t *testing.T) {
	tx := &stubTx{
		queryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return stubRow{scan: func(dest ...any) error { return pgx.ErrNoRows }}
		},
	}

	_, err := NewRequestRepository().GetByID(withTx(tx), 7)
	require.ErrorIs(t, err, request.ErrNotFound)
}

func TestRequestRepository_UpdateStatus_CompareAndSwap(t *testing.T) {
	expected := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tx := &stubTx{
		queryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			require.Contains(t, sql, "UPDATE transmittal_requests")
			require.Contains(t, sql, "updated_at = $3")
			require.Equal(t, int64(7), args[0])
			require.Equal(t, "COMPLETED", args[1])
			require.Equal(t, expected, args[2])
			return &stubRows{data: [][]any{requestRow(7, "COMPLETED", expected.Add(time.Second))}, idx: 1}
		},
		queryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			return &stubRows{}, nil
		},
	}

	got, err := NewRequestRepository().UpdateStatus(withTx(tx), 7, request.StatusCompleted, expected)
	require.NoError(t, err)
	require.Equal(t, request.StatusCompleted, got.Status())
}

func TestRequestRepository_UpdateStatus_LostRaceIsConflict(t *testing.T) {
	tx := &stubTx{
		queryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			if strings.Contains(sql, "UPDATE transmittal_requests") {
				return stubRow{scan: func(dest ...any) error { return pgx.ErrNoRows }}
			}
			// existence probe: the row is there, so the CAS lost a race
			return stubRow{scan: func(dest ...any) error {
				*dest[0].(*bool) = true
				return nil
			}}
		},
	}

	_, err := NewRequestRepository().UpdateStatus(withTx(tx), 7, request.StatusCompleted, time.Now())
	require.ErrorIs(t, err, request.ErrConflict)
}

func TestRequestRepository_UpdateStatus_MissingRowIsNotFound(t *testing.T) {
	tx := &stubTx{
		queryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			if strings.Contains(sql, "UPDATE transmittal_requests") {
				return stubRow{scan: func(dest ...any) error { return pgx.ErrNoRows }}
			}
			return stubRow{scan: func(dest ...any) error {
				*dest[0].(*bool) = false
				return nil
			}}
		},
	}

	_, err := NewRequestRepository().UpdateStatus(withTx(tx), 7, request.StatusCompleted, time.Now())
	require.ErrorIs(t, err, request.ErrNotFound)
}

func TestGRDRepository_Create_UniqueViolationIsNumberTaken(t *testing.T) {
	tx := &stubTx{
		queryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			require.Contains(t, sql, "INSERT INTO grds")
			return stubRow{scan: func(dest ...any) error {
				return &pgconn.PgError{Code: "23505", ConstraintName: "uq_grds_number"}
			}}
		},
	}

	record := grd.New("GRD-2026-000001", "PROT-2026-000001", 7, 1, 2, 3, "p", "email", "", "admin", time.Now(), nil)
	_, err := NewGRDRepository().Create(withTx(tx), record)
	require.ErrorIs(t, err, grd.ErrNumberTaken)
}

func TestPgRevisionStore_MapsRowsAndSkipsUnknown(t *testing.T) {
	tx := &stubTx{
		queryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			require.Contains(t, sql, "FROM documents")
			require.Equal(t, []int64{10, 11, 12}, args[0])
			return &stubRows{data: [][]any{
				{int64(10), 1},
				{int64(12), 4},
			}}, nil
		},
	}

	revisions, err := NewPgRevisionStore().Revisions(withTx(tx), []int64{10, 11, 12})
	require.NoError(t, err)
	require.Equal(t, map[int64]int{10: 1, 12: 4}, revisions)
	_, known := revisions[11]
	require.False(t, known)
}

func TestPgRevisionStore_EmptyInputSkipsQuery(t *testing.T) {
	tx := &stubTx{
		queryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			t.Fatal("query must not run for an empty id set")
			return nil, nil
		},
	}

	revisions, err := NewPgRevisionStore().Revisions(withTx(tx), nil)
	require.NoError(t, err)
	require.Empty(t, revisions)
}

func withTx(tx *stubTx) context.Context {
	return context.WithValue(context.Background(), constants.TxKey, tx)
}

type stubTx struct {
	queryFunc    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	queryRowFunc func(ctx context.Context, sql string, args ...any) pgx.Row
	execFunc     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (s *stubTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, errors.New("copy not implemented")
}

func (s *stubTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	var results pgx.BatchResults
	return results
}

func (s *stubTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	if s.execFunc == nil {
		return pgconn.CommandTag{}, nil
	}
	return s.execFunc(ctx, sql, arguments...)
}

func (s *stubTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if s.queryFunc == nil {
		return nil, errors.New("query not implemented")
	}
	return s.queryFunc(ctx, sql, args...)
}

func (s *stubTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if s.queryRowFunc == nil {
		return stubRow{scan: func(dest ...any) error { return errors.New("query row not implemented") }}
	}
	return s.queryRowFunc(ctx, sql, args...)
}

type stubRow struct {
	scan func(dest ...any) error
}

func (r stubRow) Scan(dest ...any) error { return r.scan(dest...) }

type stubRows struct {
	data [][]any
	idx  int
	err  error
}

func (r *stubRows) Next() bool {
	if r.idx >= len(r.data) {
		return false
	}
	r.idx++
	return true
}

func (r *stubRows) Scan(dest ...any) error {
	if r.idx == 0 || r.idx > len(r.data) {
		return errors.New("no current row to scan")
	}
	row := r.data[r.idx-1]
	if len(dest) != len(row) {
		return fmt.Errorf("destination length %d does not match row length %d", len(dest), len(row))
	}
	for i, target := range dest {
		switch v := target.(type) {
		case *int64:
			*v = row[i].(int64)
		case *int:
			*v = row[i].(int)
		case *string:
			*v = row[i].(string)
		case *time.Time:
			*v = row[i].(time.Time)
		case *bool:
			*v = row[i].(bool)
		default:
			return fmt.Errorf("unsupported scan target %T", target)
		}
	}
	return nil
}

func (r *stubRows) Values() ([]any, error) {
	if r.idx == 0 || r.idx > len(r.data) {
		return nil, errors.New("no current row")
	}
	return r.data[r.idx-1], nil
}

func (r *stubRows) RawValues() [][]byte { return nil }
func (r *stubRows) Err() error          { return r.err }
func (r *stubRows) Close()              {}
func (r *stubRows) CommandTag() pgconn.CommandTag {
	return pgconn.CommandTag{}
}
func (r *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *stubRows) Conn() *pgx.Conn                              { return nil }

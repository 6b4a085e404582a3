package request

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerdict_SequentialBoundaries(t *testing.T) {
	cases := []struct {
		name       string
		repository int
		uploaded   int
		sequential bool
		delta      int
	}{
		{"first transmission", 0, 1, true, 0},
		{"normal successor", 1, 2, true, 0},
		{"same revision resubmitted", 4, 4, false, -1},
		{"skipped one revision", 1, 3, false, 1},
		{"stale upload", 3, 1, false, -3},
		{"zero upload", 0, 0, false, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v := Verdict{RepositoryRevision: c.repository, UploadedRevision: c.uploaded}
			require.Equal(t, c.sequential, v.IsSequential())
			require.Equal(t, c.delta, v.Delta())
		})
	}
}

func TestValidate_UnknownDocumentCountsAsRevisionZero(t *testing.T) {
	docs := []DocumentRef{
		{DocumentID: 1, Code: "DOC-001", UploadedRevision: 1},
		{DocumentID: 2, Code: "DOC-002", UploadedRevision: 2},
	}
	// Snapshot has neither id: both fall back to repository revision 0.
	verdicts := Validate(docs, map[int64]int{})

	require.Len(t, verdicts, 2)
	require.True(t, verdicts[0].IsSequential())
	require.False(t, verdicts[1].IsSequential())
}

func TestValidate_PreservesDocumentOrder(t *testing.T) {
	docs := []DocumentRef{
		{DocumentID: 7, Code: "B", UploadedRevision: 2},
		{DocumentID: 3, Code: "A", UploadedRevision: 5},
	}
	verdicts := Validate(docs, map[int64]int{7: 1, 3: 2})

	require.Equal(t, int64(7), verdicts[0].DocumentID)
	require.Equal(t, int64(3), verdicts[1].DocumentID)
	require.Equal(t, 1, verdicts[0].RepositoryRevision)
	require.Equal(t, 2, verdicts[1].RepositoryRevision)
}

func TestValidate_IsDeterministic(t *testing.T) {
	docs := []DocumentRef{{DocumentID: 1, Code: "DOC-001", UploadedRevision: 3}}
	snapshot := map[int64]int{1: 1}

	first := Validate(docs, snapshot)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Validate(docs, snapshot))
	}
}

func TestFailingAndAllSequential(t *testing.T) {
	verdicts := []Verdict{
		{DocumentID: 1, RepositoryRevision: 0, UploadedRevision: 1},
		{DocumentID: 2, RepositoryRevision: 2, UploadedRevision: 5},
		{DocumentID: 3, RepositoryRevision: 1, UploadedRevision: 2},
	}

	failing := Failing(verdicts)
	require.Len(t, failing, 1)
	require.Equal(t, int64(2), failing[0].DocumentID)
	require.False(t, AllSequential(verdicts))
	require.True(t, AllSequential([]Verdict{verdicts[0], verdicts[2]}))
	require.True(t, AllSequential(nil))
}

func TestRevisionMismatchError_KeepsOnlyFailingVerdicts(t *testing.T) {
	err := NewRevisionMismatchError([]Verdict{
		{DocumentID: 1, Code: "OK", RepositoryRevision: 0, UploadedRevision: 1},
		{DocumentID: 2, Code: "BAD", RepositoryRevision: 1, UploadedRevision: 3},
	})

	require.Len(t, err.Verdicts, 1)
	require.Equal(t, "BAD", err.Verdicts[0].Code)
	require.Contains(t, err.Error(), "BAD")
	require.Contains(t, err.Error(), "1 document(s)")
}

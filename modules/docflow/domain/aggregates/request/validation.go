package request

// Verdict is the revision-consistency check result for one document. It is
// derived on demand and never persisted.
type Verdict struct {
	DocumentID         int64
	Code               string
	Title              string
	RepositoryRevision int
	UploadedRevision   int
}

// IsSequential holds iff the uploaded revision is the strict successor of the
// repository revision. Equal or skipped revisions both fail.
func (v Verdict) IsSequential() bool {
	return v.UploadedRevision == v.RepositoryRevision+1
}

// Delta is how far past the expected revision the upload is. Zero for a
// sequential upload, negative for a stale one.
func (v Verdict) Delta() int {
	return v.UploadedRevision - (v.RepositoryRevision + 1)
}

// Validate computes one verdict per document against a revision snapshot.
// A document missing from the snapshot is treated as never transmitted
// (repository revision 0), so only an upload of revision 1 passes for it.
// The function is pure; callers decide what a failing set means.
func Validate(docs []DocumentRef, revisions map[int64]int) []Verdict {
	verdicts := make([]Verdict, 0, len(docs))
	for _, d := range docs {
		verdicts = append(verdicts, Verdict{
			DocumentID:         d.DocumentID,
			Code:               d.Code,
			Title:              d.Title,
			RepositoryRevision: revisions[d.DocumentID],
			UploadedRevision:   d.UploadedRevision,
		})
	}
	return verdicts
}

// Failing filters to the non-sequential verdicts, preserving order.
func Failing(verdicts []Verdict) []Verdict {
	out := make([]Verdict, 0)
	for _, v := range verdicts {
		if !v.IsSequential() {
			out = append(out, v)
		}
	}
	return out
}

func AllSequential(verdicts []Verdict) bool {
	for _, v := range verdicts {
		if !v.IsSequential() {
			return false
		}
	}
	return true
}

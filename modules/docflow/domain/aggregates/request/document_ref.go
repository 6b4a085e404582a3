package request

// DocumentRef is a request line item: a pointer into the document registry
// plus the revision the requester claims to be submitting. The repository
// side of the comparison lives on Verdict, snapshotted when the verdicts are
// computed.
type DocumentRef struct {
	DocumentID       int64
	Code             string
	Title            string
	UploadedRevision int
	Format           string
	Pages            int
}

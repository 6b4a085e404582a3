package request

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound           = errors.New("request not found")
	ErrInvalidTransition  = errors.New("transition not allowed")
	ErrInvalidState       = errors.New("request is not awaiting issuance")
	ErrEmptyDocumentSet   = errors.New("request has no documents")
	ErrConflict           = errors.New("request was modified concurrently")
	ErrNoRequesterContact = errors.New("request has no requester contact")
	ErrDispatchFailed     = errors.New("notification dispatch failed")
)

// RevisionMismatchError reports the non-sequential documents found during an
// issuance attempt. It is the expected "needs correction" outcome rather than
// a hard failure; callers route it to the notification flow.
type RevisionMismatchError struct {
	Verdicts []Verdict
}

func (e *RevisionMismatchError) Error() string {
	codes := make([]string, 0, len(e.Verdicts))
	for _, v := range e.Verdicts {
		codes = append(codes, v.Code)
	}
	return fmt.Sprintf("revision mismatch on %d document(s): %s", len(e.Verdicts), strings.Join(codes, ", "))
}

// NewRevisionMismatchError keeps only the failing verdicts.
func NewRevisionMismatchError(verdicts []Verdict) *RevisionMismatchError {
	return &RevisionMismatchError{Verdicts: Failing(verdicts)}
}

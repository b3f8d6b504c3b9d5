package news

import "fmt"

// FailureKind classifies why a source produced no opinion.
type FailureKind string

const (
	FailureUnavailable FailureKind = "Unavailable"
	FailureTimeout     FailureKind = "Timeout"
	FailureRemoteError FailureKind = "RemoteError"
	FailureParseError  FailureKind = "ParseError"
)

// SourceFailure records a source that did not contribute to a verdict.
// It carries no label or confidence and never takes part in voting.
type SourceFailure struct {
	SourceID string      `json:"source_id"`
	Kind     FailureKind `json:"error_kind"`
	Detail   string      `json:"detail"`
}

func (f *SourceFailure) Error() string {
	return fmt.Sprintf("source %s: %s: %s", f.SourceID, f.Kind, f.Detail)
}

// Unavailable builds a failure for a source that cannot run at all
// (missing credential, missing model).
func Unavailable(sourceID, detail string) *SourceFailure {
	return &SourceFailure{SourceID: sourceID, Kind: FailureUnavailable, Detail: detail}
}

// RemoteError builds a failure for transport or upstream errors.
func RemoteError(sourceID string, err error) *SourceFailure {
	return &SourceFailure{SourceID: sourceID, Kind: FailureRemoteError, Detail: errDetail(err)}
}

// ParseError builds a failure for payloads that could not be understood.
func ParseError(sourceID string, err error) *SourceFailure {
	return &SourceFailure{SourceID: sourceID, Kind: FailureParseError, Detail: errDetail(err)}
}

// Timeout builds a failure for a source that missed its deadline.
func Timeout(sourceID, detail string) *SourceFailure {
	return &SourceFailure{SourceID: sourceID, Kind: FailureTimeout, Detail: detail}
}

func errDetail(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

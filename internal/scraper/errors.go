package scraper

import "fmt"

// FailureKind distinguishes transport-level failures from unusable page
// content. Both abort the run without mutating stored state.
type FailureKind string

const (
	KindNetwork FailureKind = "network"
	KindParse   FailureKind = "parse"
)

// FetchError is returned by FetchTable for any failure to produce a table.
type FetchError struct {
	Kind FailureKind
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch (%s): %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func networkError(err error) *FetchError {
	return &FetchError{Kind: KindNetwork, Err: err}
}

func parseError(err error) *FetchError {
	return &FetchError{Kind: KindParse, Err: err}
}

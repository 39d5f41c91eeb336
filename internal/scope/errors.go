package scope

import "fmt"

// LoadError means the catalog fetch failed or was malformed. Fatal to the
// session: the user must close and reopen to retry.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading catalog: %v", e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// SaveError means the save request failed or the server rejected it.
// Recoverable: the buffer and view stay intact and the user can retry.
type SaveError struct {
	Reason string // application-level rejection (ok:false), if any
	Err    error  // transport-level failure, if any
}

func (e *SaveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("saving scope: %v", e.Err)
	}
	if e.Reason != "" {
		return fmt.Sprintf("saving scope: server rejected: %s", e.Reason)
	}
	return "saving scope: rejected"
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

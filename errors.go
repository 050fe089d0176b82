package esign

import "errors"

// Sentinel errors for session facts. Guard rejections return these
// (optionally wrapped) so hosts can branch with errors.Is; none of them is
// reported through the error observer, because the host is expected to
// consult Status/IsValid before offering the terminal action.
//
//   - ErrNoEngine: neither an engine instance nor a document+mount pair was
//     supplied at creation (fatal; the session never reaches tracking)
//   - ErrSessionDestroyed: the session was torn down
//   - ErrSessionDisabled: the host marked the session disabled
//   - ErrSubmitInProgress: a submit is already awaiting the host handler
//   - ErrNotValid: the configured requirements are not all satisfied
var (
	ErrNoEngine         = errors.New("no engine or document supplied")
	ErrSessionDestroyed = errors.New("session destroyed")
	ErrSessionDisabled  = errors.New("session disabled")
	ErrSubmitInProgress = errors.New("submit already in progress")
	ErrNotValid         = errors.New("requirements not satisfied")
)

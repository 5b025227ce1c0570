package authflow

import "net/url"

// State is where the callback hand-off currently stands. The flow starts in
// StateLoading and moves to exactly one terminal state.
type State string

const (
	// StateLoading: waiting for the provider to redirect back.
	StateLoading State = "loading"
	// StateSuccess: a token arrived and was persisted.
	StateSuccess State = "success"
	// StateError: the provider reported an error, no token arrived, or the
	// token could not be stored.
	StateError State = "error"
)

// Result is the outcome of one callback hand-off.
type Result struct {
	State       State
	Token       string
	DisplayName string
	// Message is the user-facing failure description, set in StateError.
	Message string
}

// ParseCallback classifies the redirect query parameters. An explicit error
// from the provider wins over anything else; a token means success; a
// redirect carrying neither is itself an error.
func ParseCallback(q url.Values) Result {
	if errMsg := q.Get("error"); errMsg != "" {
		return Result{State: StateError, Message: errMsg}
	}
	if token := q.Get("token"); token != "" {
		return Result{
			State:       StateSuccess,
			Token:       token,
			DisplayName: q.Get("name"),
		}
	}
	return Result{State: StateError, Message: "no token received"}
}

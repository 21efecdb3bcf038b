package resolver

import "otakubantu-api/core/domain"

// Decision tells the cascade what to do after an attempt
type Decision int

const (
	// Continue advances to the next source
	Continue Decision = iota

	// Stop returns the attempt's payload to the caller
	Stop

	// Abort ends the cascade without an answer; the caller went away
	Abort
)

// String implements fmt.Stringer
func (d Decision) String() string {
	switch d {
	case Stop:
		return "stop"
	case Abort:
		return "abort"
	}
	return "continue"
}

// decide maps an attempt outcome to the next cascade step. Failures and empty
// answers both advance.
func decide(a domain.Attempt) Decision {
	switch a.Outcome {
	case domain.OutcomeSuccess:
		return Stop
	case domain.OutcomeCancelled:
		return Abort
	}
	return Continue
}

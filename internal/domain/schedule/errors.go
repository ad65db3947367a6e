package schedule

import "errors"

var (
	// ErrInvalidWindow reports a malformed slot-window configuration:
	// the end hour does not come after the start hour, or the slot width
	// does not evenly divide an hour.
	ErrInvalidWindow = errors.New("invalid slot window")

	// ErrInvalidDuration reports an appointment whose end precedes its start.
	ErrInvalidDuration = errors.New("invalid appointment duration")

	// ErrUnresolvedReference reports that enrichment could not resolve the
	// appointment's doctor or patient. The enriched record is absent in
	// that case, never partially filled.
	ErrUnresolvedReference = errors.New("unresolved appointment reference")
)

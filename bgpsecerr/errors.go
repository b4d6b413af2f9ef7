// Package bgpsecerr defines the sentinel errors shared across the
// simulator's packages, per the error taxonomy of the engine: parse-time
// failures are fatal, trial-time failures are either recoverable
// (ErrUnknownAS) or fatal to just that trial (ErrNoRoute), and a small
// set of conditions indicate a bug rather than bad input.
package bgpsecerr

import "errors"

var (
	// ErrInvalidRelFile is returned when a relationship file cannot be parsed.
	ErrInvalidRelFile = errors.New("invalid as-rel file")

	// ErrUnknownAS is returned when a trial names an AS ID absent from the graph.
	// Callers should warn and treat the trial as a 0/1 result rather than
	// aborting the batch.
	ErrUnknownAS = errors.New("unknown AS")

	// ErrNoRoute is returned when hijack_n_hops cannot find a base route of
	// the requested length. Fatal to the trial.
	ErrNoRoute = errors.New("no route of requested length")

	// ErrCycleDetected indicates accept's loop-suppression failed to keep a
	// cycle out of a route. Should not occur by construction; surfacing it
	// means a bug in accept or forwarding.
	ErrCycleDetected = errors.New("route contains a cycle")

	// ErrInvariant indicates prefer was called on routes that do not share
	// an origin or a final AS.
	ErrInvariant = errors.New("invariant violation")
)

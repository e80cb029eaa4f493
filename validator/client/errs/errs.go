// Package errs classifies the failures the scheduling core can hit into
// the handful of categories the runner and the endpoint pool need to treat
// differently, using typed errors instead of string matching.
package errs

import "fmt"

// Kind identifies which handling rule a failure falls under.
type Kind int

const (
	// Unknown is returned by As when the error carries no Kind of its
	// own; callers should treat it as Recoverable.
	Unknown Kind = iota
	// Recoverable failures may be retried on the next duty without
	// any risk of double-signing: network errors, endpoint timeouts,
	// a beacon node not yet synced.
	Recoverable
	// Irrecoverable failures occur after a signature has already left
	// the process. They must never be retried within the same duty,
	// since retrying risks broadcasting two signatures over the same
	// data.
	Irrecoverable
	// Slashable indicates the local or remote slashing-protection
	// database refused to sign because doing so would double-vote,
	// surround, or be surrounded by a previously signed attestation,
	// or double-propose a block.
	Slashable
	// DoppelgangerProtected indicates a public key is still within its
	// doppelganger observation window and must not sign.
	DoppelgangerProtected
	// UnknownPubkey indicates the store has no signing key loaded for
	// a public key the beacon node assigned a duty to.
	UnknownPubkey
	// GreaterThanCurrentEpoch indicates a request referenced an epoch
	// the beacon node has not reached yet.
	GreaterThanCurrentEpoch
	// GreaterThanCurrentSlot indicates a request referenced a slot the
	// beacon node has not reached yet.
	GreaterThanCurrentSlot
	// SameData indicates a duplicate signing request for data already
	// signed; the store reports it as this error and produces no new
	// signature.
	SameData
	// EndpointUnavailable indicates every endpoint in a pool failed to
	// service a request.
	EndpointUnavailable
)

func (k Kind) String() string {
	switch k {
	case Recoverable:
		return "recoverable"
	case Irrecoverable:
		return "irrecoverable"
	case Slashable:
		return "slashable"
	case DoppelgangerProtected:
		return "doppelganger_protected"
	case UnknownPubkey:
		return "unknown_pubkey"
	case GreaterThanCurrentEpoch:
		return "greater_than_current_epoch"
	case GreaterThanCurrentSlot:
		return "greater_than_current_slot"
	case SameData:
		return "same_data"
	case EndpointUnavailable:
		return "endpoint_unavailable"
	default:
		return "unknown"
	}
}

// Error is a classified failure. Wrap returns one around any error, and As
// recovers the Kind from an error chain produced elsewhere in the module.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind.String(), e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap classifies err under kind.
func Wrap(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Newf builds a classified error from a format string.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// As reports the Kind carried by err, or Unknown if err does not wrap one
// of this package's errors.
func As(err error) Kind {
	var classified *Error
	for err != nil {
		if c, ok := err.(*Error); ok {
			classified = c
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	if classified == nil {
		return Unknown
	}
	return classified.Kind
}

// IsIrrecoverable reports whether err must not be retried within the
// current duty.
func IsIrrecoverable(err error) bool {
	return As(err) == Irrecoverable
}

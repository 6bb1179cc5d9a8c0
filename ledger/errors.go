package ledger

import "errors"

// Sentinel errors surfaced by ValidateBlock/ApplyBlock, grouped into
// validation, state-transition, and storage kinds.
var (
	ErrBlockValidation       = errors.New("ledger: block validation failed")
	ErrNotFound              = errors.New("ledger: referenced record not found")
	ErrAccountNotFound       = errors.New("ledger: account not found")
	ErrInvalidNonce          = errors.New("ledger: invalid nonce")
	ErrInsufficientBalance   = errors.New("ledger: insufficient balance")
	ErrStateTransition       = errors.New("ledger: invalid state transition")
	ErrInvalidTransactionPayload = errors.New("ledger: invalid transaction payload for recipient")
	ErrStorage               = errors.New("ledger: storage commit failed")
)

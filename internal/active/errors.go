package active

import "errors"

var (
	// ErrAlreadyInitialized is returned by Initialize after the initial
	// train/test sets have been committed.
	ErrAlreadyInitialized = errors.New("controller already initialized")

	// ErrPendingQueries is returned by Search while label requests are
	// still open; the caller must deposit (or ignore) them first.
	ErrPendingQueries = errors.New("pending label requests must be resolved first")

	// ErrNoOpenQueries is returned by Ignore when the ledger is empty.
	ErrNoOpenQueries = errors.New("no open label requests")

	// ErrNoMatch is returned by Deposit when none of the given indices
	// is pending in any open label request.
	ErrNoMatch = errors.New("indices do not match any open label request")
)

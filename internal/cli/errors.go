package cli

// Error codes for structured error responses.
// These codes are stable and can be relied upon by agents.
const (
	// Vault errors
	ErrVaultNotFound     = "VAULT_NOT_FOUND"
	ErrVaultNotSpecified = "VAULT_NOT_SPECIFIED"
	ErrConfigInvalid     = "CONFIG_INVALID"

	// Note errors
	ErrNoteNotFound     = "NOTE_NOT_FOUND"
	ErrNoteExists       = "NOTE_EXISTS"
	ErrNoteNotTracked   = "NOTE_NOT_TRACKED"
	ErrNoteOutsideVault = "NOTE_OUTSIDE_VAULT"

	// Tracker errors
	ErrTrackerNoToken = "TRACKER_NO_TOKEN"
	ErrTrackerNoRepo  = "TRACKER_NO_REPO"
	ErrTrackerFailed  = "TRACKER_REQUEST_FAILED"

	// File errors
	ErrFileReadError  = "FILE_READ_ERROR"
	ErrFileWriteError = "FILE_WRITE_ERROR"

	// Ledger errors
	ErrLedgerError = "LEDGER_ERROR"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"
	ErrDuplicateName   = "DUPLICATE_NAME"

	// General errors
	ErrConfirmationRequired = "CONFIRMATION_REQUIRED"
	ErrInternal             = "INTERNAL_ERROR"
)

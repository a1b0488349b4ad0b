package errors

// Generic error code definitions used as sensible defaults across modules.
const (
	CodeSystemGeneric     = "SYS-000"
	CodeNetworkGeneric    = "NET-000"
	CodeConfigGeneric     = "CFG-000"
	CodeValidationGeneric = "VAL-000"
	CodeDatabaseGeneric   = "DB-000"
	CodeCanceledGeneric   = "CNL-000"
)

// Specific error codes for failures callers are expected to branch on.
const (
	CodeNetworkRetryExhausted  = "NET-001"
	CodeValidationHashMismatch = "VAL-001"
)

package errors

// PostgreSQL Error Codes (SQLSTATE)
// Based on PostgreSQL error codes: https://www.postgresql.org/docs/current/errcodes-appendix.html
// Only the classes the optimizer core raises are listed here.

// Class 0A - Feature Not Supported
const (
	FeatureNotSupported = "0A000"
)

// Class 42 - Syntax Error or Access Rule Violation
const (
	UndefinedTable  = "42P01"
	UndefinedObject = "42704"
	DuplicateTable  = "42P07"
	DuplicateObject = "42710"
)

// Class 57 - Operator Intervention
const (
	QueryCanceled = "57014"
)

// Class XX - Internal Error
const (
	InternalError  = "XX000"
	DataCorrupted  = "XX001"
	IndexCorrupted = "XX002"
)

package logger

// Standard field names for structured logging across subgen.
const (
	// Identity
	FieldBatchID   = "batch_id"
	FieldComponent = "component"

	// Generation
	FieldSeed       = "seed"
	FieldProgram    = "program"
	FieldPolicy     = "policy"
	FieldTypeOption = "type_option"
	FieldPrelude    = "prelude"
	FieldBody       = "body"
	FieldFallback   = "fallback"
	FieldPredicates = "predicates"

	// Counts and sizes
	FieldCount = "count"
	FieldSize  = "size"

	// Files and paths
	FieldFile   = "file"
	FieldDomain = "domain"
	FieldDir    = "dir"

	// Errors
	FieldError = "error"
)

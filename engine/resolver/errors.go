package resolver

import "fmt"

// UnknownFieldError reports a query field the schema does not declare
type UnknownFieldError struct {
	Field      string
	Suggestion string
}

func (e *UnknownFieldError) Error() string {
	msg := fmt.Sprintf("unknown field '%s'", e.Field)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(". Did you mean '%s'?", e.Suggestion)
	}
	return msg
}

// SchemaMismatchError reports a query shape the schema cannot satisfy,
// such as expanding a flat field
type SchemaMismatchError struct {
	Field   string
	Message string
}

func (e *SchemaMismatchError) Error() string {
	return e.Message
}

// AliasConflictError reports two entries landing on the same output key
type AliasConflictError struct {
	Key string
}

func (e *AliasConflictError) Error() string {
	return fmt.Sprintf("duplicate output key '%s'", e.Key)
}

package validator

import (
	"fmt"

	"github.com/restql-engine/restql/engine/translator"
)

// ValidationResult contains detailed validation info
type ValidationResult struct {
	Valid    bool
	Error    string
	Position int // Character position of error, when known
}

// Validate checks a translated query before execution
func Validate(res *translator.Result) error {
	switch res.Backend {
	case "PostgreSQL":
		return ValidatePostgreSQL(res.SQL)
	case "MySQL":
		return ValidateMySQL(res.SQL)
	case "MongoDB":
		return ValidateMongoDB(res.Document)
	case "Redis":
		return ValidateRedis(res.KeyValue)
	default:
		return fmt.Errorf("unsupported backend: %s", res.Backend)
	}
}

// ValidateWithDetails returns detailed validation result
func ValidateWithDetails(res *translator.Result) (*ValidationResult, error) {
	switch res.Backend {
	case "PostgreSQL":
		return ValidatePostgreSQLWithDetails(res.SQL)
	case "MySQL":
		return ValidateMySQLWithDetails(res.SQL)
	case "MongoDB":
		return wrapResult(ValidateMongoDB(res.Document)), nil
	case "Redis":
		return wrapResult(ValidateRedis(res.KeyValue)), nil
	default:
		return nil, fmt.Errorf("unsupported backend: %s", res.Backend)
	}
}

func wrapResult(err error) *ValidationResult {
	if err != nil {
		return &ValidationResult{Valid: false, Error: err.Error()}
	}
	return &ValidationResult{Valid: true}
}

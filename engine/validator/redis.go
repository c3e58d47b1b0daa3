package validator

import (
	"fmt"
	"strings"

	"github.com/restql-engine/restql/engine/translator"
)

// ValidateRedis checks that a key-value plan is executable: it must target
// either one hash key or a scan pattern, and name at least one field
func ValidateRedis(plan *translator.KeyValuePlan) error {
	if plan == nil {
		return fmt.Errorf("key-value plan is nil")
	}
	if len(plan.Fields) == 0 {
		return fmt.Errorf("key-value plan fetches no fields")
	}

	switch {
	case plan.Key != "" && plan.Match != "":
		return fmt.Errorf("key-value plan sets both key and match pattern")
	case plan.Key == "" && plan.Match == "":
		return fmt.Errorf("key-value plan targets nothing")
	case plan.Key != "" && !strings.Contains(plan.Key, ":"):
		return fmt.Errorf("malformed hash key '%s'", plan.Key)
	}
	return nil
}

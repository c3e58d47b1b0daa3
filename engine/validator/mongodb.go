package validator

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/restql-engine/restql/engine/translator"
)

// ValidateMongoDB checks that a document query is well formed and that its
// filter and projection encode to BSON
func ValidateMongoDB(doc *translator.DocumentQuery) error {
	if doc == nil {
		return fmt.Errorf("document query is nil")
	}
	if doc.Collection == "" {
		return fmt.Errorf("document query has no collection")
	}
	if len(doc.Projection) == 0 {
		return fmt.Errorf("document query projects no fields")
	}

	if _, err := bson.Marshal(doc.Filter); err != nil {
		return fmt.Errorf("filter does not encode: %w", err)
	}
	if _, err := bson.Marshal(doc.Projection); err != nil {
		return fmt.Errorf("projection does not encode: %w", err)
	}
	return nil
}

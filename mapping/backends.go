package mapping

// SupportedBackends lists all storage backends queries can translate to.
// Callers must use these exact names in their backend field.
var SupportedBackends = []string{
	"PostgreSQL",
	"MySQL",
	"MongoDB",
	"Redis",
}

// IsSupportedBackend checks if a backend name is supported
func IsSupportedBackend(backend string) bool {
	for _, b := range SupportedBackends {
		if b == backend {
			return true
		}
	}
	return false
}

package translator

// TranslatePostgreSQL renders the request as a PostgreSQL SELECT
func TranslatePostgreSQL(req Request) (string, error) {
	return buildSQL(req, sqlDialect{
		name:  "PostgreSQL",
		quote: quoteDouble,
	})
}

func quoteDouble(ident string) string {
	return `"` + ident + `"`
}

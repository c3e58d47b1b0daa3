package translator

// TranslateMySQL renders the request as a MySQL SELECT
func TranslateMySQL(req Request) (string, error) {
	return buildSQL(req, sqlDialect{
		name:  "MySQL",
		quote: quoteBacktick,
	})
}

func quoteBacktick(ident string) string {
	return "`" + ident + "`"
}

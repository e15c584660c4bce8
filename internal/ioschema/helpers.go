package ioschema

import (
	"fmt"

	"github.com/jackc/pgx/v5"
)

// formatCollationSQL formats the collation SQL statement.
func formatCollationSQL(
	table string,
	column string,
	varchar int,
) string {
	return fmt.Sprintf(
		`ALTER TABLE %s ALTER COLUMN %s TYPE VARCHAR(%d) COLLATE "C"`,
		pgx.Identifier{table}.Sanitize(),
		pgx.Identifier{column}.Sanitize(),
		varchar,
	)
}

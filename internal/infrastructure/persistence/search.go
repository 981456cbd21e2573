package persistence

import (
	"strings"

	"gorm.io/gorm"
)

// containsAny builds a case-sensitive substring condition over columns.
// LIKE is case-insensitive for ASCII on SQLite, so position functions are
// used instead: instr on SQLite, strpos on PostgreSQL.
func containsAny(db *gorm.DB, query string, columns ...string) (string, []any) {
	fn := "strpos"
	if db.Dialector.Name() == DriverSQLite {
		fn = "instr"
	}
	clauses := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		clauses[i] = fn + "(" + col + ", ?) > 0"
		args[i] = query
	}
	return "(" + strings.Join(clauses, " OR ") + ")", args
}

package repository

import (
	"strings"

	sq "github.com/Masterminds/squirrel"

	"refurb-catalog/internal/domain"
)

// psql builds statements with Postgres $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// setIfPresent adds column to set when value is non-nil.
func setIfPresent[T any](set map[string]interface{}, column string, value *T) {
	if value != nil {
		set[column] = *value
	}
}

// setNullable adds column to set when field was supplied. A null field
// writes NULL.
func setNullable[T any](set map[string]interface{}, column string, field domain.Nullable[T]) {
	if !field.Set {
		return
	}
	if field.Value == nil {
		set[column] = nil
		return
	}
	set[column] = *field.Value
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern returns an ILIKE pattern matching term as a literal
// substring.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

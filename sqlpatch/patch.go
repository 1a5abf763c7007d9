// Package sqlpatch builds parameterized partial UPDATE statements.
//
// Only identifiers (table and column names) are written into the query
// text. Every value, including the row identifier, is bound through a
// positional $n placeholder.
package sqlpatch

import (
	"regexp"
	"strconv"
	"strings"
)

var identifierRx = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Statement is a query and its bound arguments, in placeholder order.
type Statement struct {
	Query string
	Args  []any
}

// Placeholders returns the number of $n markers in the statement.
func (s Statement) Placeholders() int {
	return len(s.Args)
}

// Build returns
//
//	UPDATE {table} SET c1=$1, c2=$2, ... WHERE {idColumn}=$n+1 RETURNING *
//
// with Args holding the change values followed by idValue.
func Build(table string, changes Changes, idColumn string, idValue any) (Statement, error) {
	if len(changes) == 0 {
		return Statement{}, ErrInvalidUpdate
	}

	if !identifierRx.MatchString(table) {
		return Statement{}, invalidUpdate("invalid table name %q", table)
	}

	if !identifierRx.MatchString(idColumn) {
		return Statement{}, invalidUpdate("invalid id column %q", idColumn)
	}

	seen := make(map[string]struct{}, len(changes))
	sets := make([]string, 0, len(changes))
	args := make([]any, 0, len(changes)+1)

	for i, ch := range changes {
		if !identifierRx.MatchString(ch.Column) {
			return Statement{}, invalidUpdate("invalid column name %q", ch.Column)
		}
		if _, dup := seen[ch.Column]; dup {
			return Statement{}, invalidUpdate("column %q set more than once", ch.Column)
		}
		seen[ch.Column] = struct{}{}

		sets = append(sets, ch.Column+"=$"+strconv.Itoa(i+1))
		args = append(args, ch.Value)
	}

	args = append(args, idValue)

	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(table)
	b.WriteString(" SET ")
	b.WriteString(strings.Join(sets, ", "))
	b.WriteString(" WHERE ")
	b.WriteString(idColumn)
	b.WriteString("=$")
	b.WriteString(strconv.Itoa(len(args)))
	b.WriteString(" RETURNING *")

	return Statement{Query: b.String(), Args: args}, nil
}

// BuildFrom filters changes through allowed before building.
func BuildFrom(allowed Allowlist, table string, changes Changes, idColumn string, idValue any) (Statement, error) {
	filtered, err := allowed.Filter(changes)
	if err != nil {
		return Statement{}, err
	}
	return Build(table, filtered, idColumn, idValue)
}

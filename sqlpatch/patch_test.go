package sqlpatch_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/goliatone/go-jobly/sqlpatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_CompanyExample(t *testing.T) {
	changes := sqlpatch.Changes{}.
		Set("logo_url", "dogs").
		Set("name", "daniel")

	stmt, err := sqlpatch.Build("companies", changes, "handle", "cool")
	require.NoError(t, err)

	assert.Equal(t, "UPDATE companies SET logo_url=$1, name=$2 WHERE handle=$3 RETURNING *", stmt.Query)
	assert.Equal(t, []any{"dogs", "daniel", "cool"}, stmt.Args)
}

func TestBuild_PlaceholdersMatchArgs(t *testing.T) {
	for n := 1; n <= 8; n++ {
		t.Run(fmt.Sprintf("%d changes", n), func(t *testing.T) {
			var changes sqlpatch.Changes
			for i := 0; i < n; i++ {
				changes = changes.Set(fmt.Sprintf("col_%d", i), i)
			}

			stmt, err := sqlpatch.Build("jobs", changes, "id", 42)
			require.NoError(t, err)

			assert.Equal(t, n+1, strings.Count(stmt.Query, "$"))
			assert.Equal(t, n+1, stmt.Placeholders())
			require.Len(t, stmt.Args, n+1)

			for i := 0; i < n; i++ {
				assert.Contains(t, stmt.Query, fmt.Sprintf("col_%d=$%d", i, i+1))
				assert.Equal(t, i, stmt.Args[i])
			}
			assert.True(t, strings.HasSuffix(stmt.Query, fmt.Sprintf("WHERE id=$%d RETURNING *", n+1)))
			assert.Equal(t, 42, stmt.Args[n])
		})
	}
}

func TestBuild_ValuesNeverInterpolated(t *testing.T) {
	payload := "'; DROP TABLE users; --"
	stmt, err := sqlpatch.Build("users", sqlpatch.Changes{}.Set("first_name", payload), "username", payload)
	require.NoError(t, err)

	assert.NotContains(t, stmt.Query, "DROP")
	assert.Equal(t, []any{payload, payload}, stmt.Args)
}

func TestBuild_EmptyChanges(t *testing.T) {
	tests := []struct {
		table    string
		idColumn string
		idValue  any
	}{
		{"companies", "handle", "cool"},
		{"jobs", "id", 1},
		{"users", "username", "bob"},
		{"anything", "whatever", nil},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			_, err := sqlpatch.Build(tt.table, nil, tt.idColumn, tt.idValue)
			assert.ErrorIs(t, err, sqlpatch.ErrInvalidUpdate)

			_, err = sqlpatch.Build(tt.table, sqlpatch.Changes{}, tt.idColumn, tt.idValue)
			assert.ErrorIs(t, err, sqlpatch.ErrInvalidUpdate)
		})
	}
}

func TestBuild_RejectsBadIdentifiers(t *testing.T) {
	valid := sqlpatch.Changes{}.Set("name", "x")

	tests := []struct {
		name     string
		table    string
		changes  sqlpatch.Changes
		idColumn string
	}{
		{"table with space", "companies; DROP", valid, "handle"},
		{"empty table", "", valid, "handle"},
		{"bad id column", "companies", valid, "handle=1 OR 1"},
		{"bad change column", "companies", sqlpatch.Changes{{Column: "name=1--", Value: "x"}}, "handle"},
		{"duplicate column", "companies", sqlpatch.Changes{{Column: "name", Value: "a"}, {Column: "name", Value: "b"}}, "handle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sqlpatch.Build(tt.table, tt.changes, tt.idColumn, "cool")
			assert.ErrorIs(t, err, sqlpatch.ErrInvalidUpdate)
		})
	}
}

func TestChanges_SetKeepsFirstPosition(t *testing.T) {
	changes := sqlpatch.Changes{}.
		Set("a", 1).
		Set("b", 2).
		Set("a", 3)

	assert.Equal(t, []string{"a", "b"}, changes.Columns())
	assert.Equal(t, []any{3, 2}, changes.Values())

	v, ok := changes.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = changes.Get("c")
	assert.False(t, ok)
}

func TestAllowlist_Filter(t *testing.T) {
	allowed := sqlpatch.NewAllowlist("title", "salary")

	changes, err := allowed.Filter(sqlpatch.Changes{}.Set("salary", 10.0).Set("title", "dev"))
	require.NoError(t, err)
	assert.Equal(t, []string{"salary", "title"}, changes.Columns())

	_, err = allowed.Filter(sqlpatch.Changes{}.Set("title", "dev").Set("id", 9))
	assert.ErrorIs(t, err, sqlpatch.ErrColumnNotAllowed)

	_, err = sqlpatch.BuildFrom(allowed, "jobs", sqlpatch.Changes{}.Set("company_handle", "x"), "id", 1)
	assert.ErrorIs(t, err, sqlpatch.ErrColumnNotAllowed)

	stmt, err := sqlpatch.BuildFrom(allowed, "jobs", sqlpatch.Changes{}.Set("title", "dev"), "id", 1)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE jobs SET title=$1 WHERE id=$2 RETURNING *", stmt.Query)
}

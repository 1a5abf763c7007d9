package sqlpatch

// Change is a single column assignment in an UPDATE statement.
type Change struct {
	Column string
	Value  any
}

// Changes is an ordered change-set. The order of the slice is the order
// placeholders are assigned in.
type Changes []Change

// Set appends column=value, or replaces the value in place when the
// column is already present so the first position is kept.
func (c Changes) Set(column string, value any) Changes {
	for i := range c {
		if c[i].Column == column {
			c[i].Value = value
			return c
		}
	}
	return append(c, Change{Column: column, Value: value})
}

// Get returns the value for column and whether it was set.
func (c Changes) Get(column string) (any, bool) {
	for _, ch := range c {
		if ch.Column == column {
			return ch.Value, true
		}
	}
	return nil, false
}

// Columns returns the column names in order.
func (c Changes) Columns() []string {
	out := make([]string, len(c))
	for i, ch := range c {
		out[i] = ch.Column
	}
	return out
}

// Values returns the values in order.
func (c Changes) Values() []any {
	out := make([]any, len(c))
	for i, ch := range c {
		out[i] = ch.Value
	}
	return out
}

func (c Changes) Len() int { return len(c) }

// Allowlist is the set of column names a resource accepts in an update.
// Only names from an Allowlist ever reach the statement text.
type Allowlist struct {
	order []string
	set   map[string]struct{}
}

// NewAllowlist builds an Allowlist keeping the declaration order.
func NewAllowlist(columns ...string) Allowlist {
	a := Allowlist{set: make(map[string]struct{}, len(columns))}
	for _, col := range columns {
		if _, ok := a.set[col]; ok {
			continue
		}
		a.set[col] = struct{}{}
		a.order = append(a.order, col)
	}
	return a
}

// Allows reports whether column is part of the list.
func (a Allowlist) Allows(column string) bool {
	_, ok := a.set[column]
	return ok
}

// Columns returns the allowed columns in declaration order.
func (a Allowlist) Columns() []string {
	return append([]string(nil), a.order...)
}

// Filter checks every change against the list, keeping the caller order.
func (a Allowlist) Filter(changes Changes) (Changes, error) {
	for _, ch := range changes {
		if !a.Allows(ch.Column) {
			return nil, columnNotAllowed(ch.Column)
		}
	}
	return changes, nil
}

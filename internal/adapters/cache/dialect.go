package cache

import (
	"fmt"
	"strings"
)

// Dialect selects the SQL flavour of a cache table. Both flavours share the
// same schema; they differ in placeholders and in how a key list is bound.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

func (d Dialect) String() string {
	if d == SQLite {
		return "sqlite"
	}
	return "postgres"
}

// placeholder returns the n-th (1-based) bind parameter.
func (d Dialect) placeholder(n int) string {
	if d == SQLite {
		return "?"
	}
	return fmt.Sprintf("$%d", n)
}

// in builds a "col matches any of keys" predicate starting at bind parameter
// n, with the matching arguments. Postgres binds the whole list as one array;
// SQLite cannot bind slices, so only the placeholder structure is
// interpolated and every value stays parameterized.
func (d Dialect) in(col string, n int, keys []string) (string, []any) {
	if d == Postgres {
		return fmt.Sprintf("%s = ANY($%d::text[])", col, n), []any{keys}
	}

	ph := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		ph[i] = "?"
		args[i] = k
	}
	return fmt.Sprintf("%s IN (%s)", col, strings.Join(ph, ",")), args
}

// uniqueKeys trims keys and drops blanks and repeats, keeping order.
func uniqueKeys(keys []string) []string {
	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}

		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	return uniq
}

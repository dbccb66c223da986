package postgresql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// violates reports whether err is a unique violation of the named index.
// An empty name matches any unique violation.
func violates(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// whereBuilder accumulates AND-ed conditions with positional arguments.
type whereBuilder struct {
	clause string
	args   []interface{}
}

func newWhere(base string, args ...interface{}) *whereBuilder {
	return &whereBuilder{clause: base, args: args}
}

// add appends cond, where "?" is replaced by the next placeholder.
func (w *whereBuilder) add(cond string, arg interface{}) {
	w.args = append(w.args, arg)
	w.clause += " AND " + strings.Replace(cond, "?", fmt.Sprintf("$%d", len(w.args)), 1)
}

// next returns the placeholder for an argument appended after the filters.
func (w *whereBuilder) next(arg interface{}) string {
	w.args = append(w.args, arg)
	return fmt.Sprintf("$%d", len(w.args))
}

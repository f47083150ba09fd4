package postgres

import (
	"strconv"
	"strings"
)

// Filter collects AND-ed conditions and numbers their placeholders in the
// order the arguments are bound. Conditions are only added for filters that
// are set, so every placeholder compares against a typed column.
type Filter struct {
	conds []string
	args  []any
}

// Arg binds v and returns its placeholder.
func (f *Filter) Arg(v any) string {
	f.args = append(f.args, v)
	return "$" + strconv.Itoa(len(f.args))
}

func (f *Filter) Where(cond string) {
	f.conds = append(f.conds, cond)
}

// SQL renders the WHERE clause, or nothing when no condition was added.
func (f *Filter) SQL() string {
	if len(f.conds) == 0 {
		return ""
	}
	return "\n\t\tWHERE " + strings.Join(f.conds, "\n\t\tAND ")
}

// Args returns a copy of the bound arguments.
func (f *Filter) Args() []any {
	return append([]any(nil), f.args...)
}

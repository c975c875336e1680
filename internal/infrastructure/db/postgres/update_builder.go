package postgres

import (
	"fmt"
	"strings"
)

// updateBuilder assembles the SET clause of a partial update.
type updateBuilder struct {
	sets []string
	args []any
}

func (b *updateBuilder) set(column string, value any) {
	b.args = append(b.args, value)
	b.sets = append(b.sets, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

// where appends the arguments of the WHERE clause and returns their placeholders.
func (b *updateBuilder) where(values ...any) []string {
	placeholders := make([]string, len(values))
	for i, v := range values {
		b.args = append(b.args, v)
		placeholders[i] = fmt.Sprintf("$%d", len(b.args))
	}
	return placeholders
}

func (b *updateBuilder) clause() string {
	return strings.Join(append(b.sets, "updated_at = NOW()"), ", ")
}

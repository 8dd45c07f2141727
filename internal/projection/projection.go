// Package projection builds column selections that leave secret fields out
// of query results.
package projection

import (
	"fmt"
	"sort"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Exclude maps every name in all to whether it is selected. Names listed in
// omit map to false; all others map to true. Names in omit that are not part
// of all are ignored.
func Exclude(all []string, omit ...string) map[string]bool {
	skip := make(map[string]struct{}, len(omit))
	for _, name := range omit {
		skip[name] = struct{}{}
	}

	out := make(map[string]bool, len(all))
	for _, name := range all {
		_, omitted := skip[name]
		out[name] = !omitted
	}
	return out
}

// Projection is a column inclusion map for one record type.
type Projection map[string]bool

// Columns returns the included column names in sorted order.
func (p Projection) Columns() []string {
	cols := make([]string, 0, len(p))
	for name, included := range p {
		if included {
			cols = append(cols, name)
		}
	}
	sort.Strings(cols)
	return cols
}

// Includes reports whether column is selected.
func (p Projection) Includes(column string) bool {
	return p[column]
}

var schemaCache sync.Map

// Of derives a projection from the database columns of model, omitting the
// given column names.
func Of(db *gorm.DB, model any, omit ...string) (Projection, error) {
	s, err := schema.Parse(model, &schemaCache, db.NamingStrategy)
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	all := make([]string, 0, len(s.DBNames))
	all = append(all, s.DBNames...)
	for _, name := range omit {
		if _, ok := s.FieldsByDBName[name]; !ok {
			return nil, fmt.Errorf("%s has no column %q", s.Table, name)
		}
	}
	return Exclude(all, omit...), nil
}

// Scope restricts a query to the projection's columns of its table.
func (p Projection) Scope(table string) func(*gorm.DB) *gorm.DB {
	cols := p.Columns()
	qualified := make([]string, len(cols))
	for i, c := range cols {
		qualified[i] = table + "." + c
	}
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Select(qualified)
	}
}

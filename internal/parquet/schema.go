package parquet

import (
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/turbolytics/lightcurves/internal/source"
)

// Field describes one column of a loaded file and how sources use it.
type Field struct {
	Name     string      `yaml:"name"`
	Type     string      `yaml:"type"`
	Nullable bool        `yaml:"nullable"`
	Role     source.Role `yaml:"role"`
}

type Schema []Field

// Describe classifies every column of an arrow schema.
func Describe(s *arrow.Schema) Schema {
	schema := make(Schema, 0, s.NumFields())
	for _, f := range s.Fields() {
		schema = append(schema, Field{
			Name:     f.Name,
			Type:     f.Type.String(),
			Nullable: f.Nullable,
			Role:     source.ColumnRole(f.Name),
		})
	}
	return schema
}

// Missing returns the columns every source needs that the schema lacks.
func (s Schema) Missing() []string {
	has := make(map[string]bool, len(s))
	for _, f := range s {
		has[f.Name] = true
	}

	var missing []string
	for _, name := range []string{source.ColumnID, source.ColumnClass} {
		if !has[name] {
			missing = append(missing, name)
		}
	}
	return missing
}

// ByRole returns the names of the columns with the given role.
func (s Schema) ByRole(role source.Role) []string {
	var names []string
	for _, f := range s {
		if f.Role == role {
			names = append(names, f.Name)
		}
	}
	return names
}

package internal

import (
	"fmt"
	"reflect"
)

// Record is a struct that contains a set of fields and their corresponding values.
// It is used to represent a row of data held in memory.
// Field order is critical for some serializers, so we keep them in a separate slice.
type Record struct {
	fields []string
	values []any
}

func NewRecord(fields []string, values []any) *Record {
	return &Record{
		fields: fields,
		values: values,
	}
}

func (r *Record) Len() int {
	return len(r.fields)
}

func (r *Record) Values() []any {
	return r.values
}

func (r *Record) Columns() []string {
	return r.fields
}

func (r *Record) Map() map[string]any {
	m := make(map[string]any)
	for i, field := range r.fields {
		m[field] = r.values[i]
	}
	return m
}

func (r *Record) value(column string) (any, error) {
	for i, field := range r.fields {
		if field == column {
			return r.values[i], nil
		}
	}
	return nil, fmt.Errorf("no such column: %q", column)
}

// Scalar returns the value of column. Slice values are rejected.
func (r *Record) Scalar(column string) (any, error) {
	v, err := r.value(column)
	if err != nil {
		return nil, err
	}
	if v != nil && reflect.TypeOf(v).Kind() == reflect.Slice {
		if _, ok := v.([]byte); !ok {
			return nil, fmt.Errorf("column %q holds a sequence, not a scalar", column)
		}
	}
	return v, nil
}

// Sequence returns the elements of a slice valued column.
func (r *Record) Sequence(column string) ([]any, error) {
	v, err := r.value(column)
	if err != nil {
		return nil, err
	}
	if vs, ok := v.([]any); ok {
		return vs, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("column %q holds a %T, not a sequence", column, v)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

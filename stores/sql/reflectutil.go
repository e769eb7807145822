package sql

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

var columnCache sync.Map // reflect.Type -> []string

// snakeCase converts an exported Go field name (CamelCase, occasional
// consecutive capitals like "PoolID" or "VSize") into a lower_snake_case SQL
// column name.
func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				prevLower := name[i-1] >= 'a' && name[i-1] <= 'z'
				nextLower := i+1 < len(name) && name[i+1] >= 'a' && name[i+1] <= 'z'
				if prevLower || (nextLower && b.Len() > 0) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// columnsFor returns the SQL column name for every exported field of t, in
// struct declaration order, cached per type.
func columnsFor(t reflect.Type) []string {
	if cached, ok := columnCache.Load(t); ok {
		return cached.([]string)
	}
	cols := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue // unexported
		}
		cols = append(cols, snakeCase(f.Name))
	}
	columnCache.Store(t, cols)
	return cols
}

// valuesFor returns the field values of v (a struct), in the same order
// columnsFor reports for v's type.
func valuesFor(v reflect.Value) []interface{} {
	t := v.Type()
	vals := make([]interface{}, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).PkgPath != "" {
			continue
		}
		vals = append(vals, v.Field(i).Interface())
	}
	return vals
}

// sqlTypeFor maps a Go field type to an affinity SQLite understands.
func sqlTypeFor(k reflect.Kind) string {
	switch k {
	case reflect.Bool, reflect.Int, reflect.Int32, reflect.Int64:
		return "INTEGER"
	case reflect.Float32, reflect.Float64:
		return "REAL"
	case reflect.String:
		return "TEXT"
	default:
		panic(fmt.Sprintf("stores/sql: unsupported field kind %s", k))
	}
}

// createTableDDL builds a CREATE TABLE IF NOT EXISTS statement for t, with
// height as the primary key.
func createTableDDL(table string, t reflect.Type) string {
	var cols []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue
		}
		col := snakeCase(f.Name)
		def := col + " " + sqlTypeFor(f.Type.Kind())
		if col == "height" {
			def += " PRIMARY KEY"
		} else {
			def += " NOT NULL"
		}
		cols = append(cols, def)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", table, strings.Join(cols, ",\n\t"))
}

// upsertDML builds an INSERT OR REPLACE statement for t.
func upsertDML(table string, t reflect.Type) string {
	cols := columnsFor(t)
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = "?"
	}
	return fmt.Sprintf("INSERT OR REPLACE INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
}

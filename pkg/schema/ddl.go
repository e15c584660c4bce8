package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// generateDDL creates a CREATE TABLE statement from struct tags.
func generateDDL(model any, tableName string) string {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	var columns []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		dbTag := field.Tag.Get("db")
		ddlTag := field.Tag.Get("ddl")

		if dbTag != "" && ddlTag != "" {
			columns = append(columns, fmt.Sprintf("    %s %s", dbTag, ddlTag))
		}
	}

	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n);",
		tableName,
		strings.Join(columns, ",\n"))

	return ddl
}

func indexDDL(name, table, column string) string {
	return fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS %s ON %s(%s);", name, table, column,
	)
}

// Province DDL methods
func (p Province) TableDDL() string {
	return generateDDL(p, p.TableName())
}

func (p Province) IndexDDL() []string {
	return []string{}
}

func (p Province) TableName() string {
	return "provinces"
}

// Regency DDL methods
func (r Regency) TableDDL() string {
	return generateDDL(r, r.TableName())
}

func (r Regency) IndexDDL() []string {
	return []string{
		indexDDL("idx_regencies_province_id", r.TableName(), "province_id"),
	}
}

func (r Regency) TableName() string {
	return "regencies"
}

// District DDL methods
func (d District) TableDDL() string {
	return generateDDL(d, d.TableName())
}

func (d District) IndexDDL() []string {
	return []string{
		indexDDL("idx_districts_regency_id", d.TableName(), "regency_id"),
	}
}

func (d District) TableName() string {
	return "districts"
}

// Village DDL methods
func (v Village) TableDDL() string {
	return generateDDL(v, v.TableName())
}

func (v Village) IndexDDL() []string {
	return []string{
		indexDDL("idx_villages_district_id", v.TableName(), "district_id"),
	}
}

func (v Village) TableName() string {
	return "villages"
}

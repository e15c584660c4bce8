// Package schema provides database models of the region tables.
// The same models drive GORM AutoMigrate on PostgreSQL and the tag-based
// DDL used for SQLite.
package schema

// DDLGenerator defines how Go models generate SQL DDL.
type DDLGenerator interface {
	// TableDDL returns the CREATE TABLE statement for this model.
	TableDDL() string

	// IndexDDL returns CREATE INDEX statements for this model.
	// Returns empty slice if no indexes needed.
	IndexDDL() []string

	// TableName returns the table name for this model.
	TableName() string
}

// Province is a first-level region (provinsi).
type Province struct {
	// ID is the Kemendagri code of the province, for example "11".
	ID string `db:"id" ddl:"VARCHAR(20) PRIMARY KEY" gorm:"primaryKey;type:varchar(20)"`

	// Name of the province, for example "ACEH".
	Name string `db:"name" ddl:"VARCHAR(255) NOT NULL" gorm:"type:varchar(255);not null"`
}

// Regency is a second-level region (kabupaten or kota).
type Regency struct {
	ID string `db:"id" ddl:"VARCHAR(20) PRIMARY KEY" gorm:"primaryKey;type:varchar(20)"`

	// ProvinceID refers to Province.ID.
	ProvinceID string `db:"province_id" ddl:"VARCHAR(20) NOT NULL" gorm:"type:varchar(20);not null;index:idx_regencies_province_id"`

	Name string `db:"name" ddl:"VARCHAR(255) NOT NULL" gorm:"type:varchar(255);not null"`
}

// District is a third-level region (kecamatan).
type District struct {
	ID string `db:"id" ddl:"VARCHAR(20) PRIMARY KEY" gorm:"primaryKey;type:varchar(20)"`

	// RegencyID refers to Regency.ID.
	RegencyID string `db:"regency_id" ddl:"VARCHAR(20) NOT NULL" gorm:"type:varchar(20);not null;index:idx_districts_regency_id"`

	Name string `db:"name" ddl:"VARCHAR(255) NOT NULL" gorm:"type:varchar(255);not null"`
}

// Village is a fourth-level region (kelurahan or desa).
type Village struct {
	ID string `db:"id" ddl:"VARCHAR(20) PRIMARY KEY" gorm:"primaryKey;type:varchar(20)"`

	// DistrictID refers to District.ID.
	DistrictID string `db:"district_id" ddl:"VARCHAR(20) NOT NULL" gorm:"type:varchar(20);not null;index:idx_villages_district_id"`

	Name string `db:"name" ddl:"VARCHAR(255) NOT NULL" gorm:"type:varchar(255);not null"`
}

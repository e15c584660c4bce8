// Package errcode enumerates error codes of wilayah.
package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	WriteConfigError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBEmptyDatabaseError
	DBNotConnectedError
	DBTableExistsCheckError
	DBQueryTablesError
	DBScanTableError
	DBDropTableError
	DBUnknownDriverError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaMigrateError
	SchemaCollationError

	// Store errors
	StoreIntegrityError
	StoreUnknownLevelError
	StoreQueryError
	StoreWriteError
	StoreClearError
	StoreStageError

	// Import errors
	ImportSourceNotFoundError
	ImportSourceOpenError
	ImportSourceFormatError
	ImportParseError
	ImportStrictError
	ImportCancelledError

	// Lookup errors
	LookupInvalidQueryError
	LookupNotFoundError

	// Cache errors
	CacheConnectionError
	CachePurgeError

	// Server errors
	ServerStartError
)

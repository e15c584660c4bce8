package ioschema

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/wilayah/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	originalErr := errors.New("root cause")

	tests := []struct {
		name string
		err  error
		code gn.ErrorCode
	}{
		{"gorm", GORMConnectionError(originalErr), errcode.SchemaGORMConnectionError},
		{"create", CreateSchemaError(originalErr), errcode.SchemaCreateError},
		{"migrate", MigrateSchemaError(originalErr), errcode.SchemaMigrateError},
		{"collation", CollationError("villages", "name", originalErr),
			errcode.SchemaCollationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gnErr, ok := tt.err.(*gn.Error)
			require.True(t, ok, "Error should be of type *gn.Error")
			assert.Equal(t, tt.code, gnErr.Code)
			assert.NotEmpty(t, gnErr.Msg)
			assert.ErrorIs(t, gnErr.Err, originalErr)
		})
	}

	gnErr := NotConnectedError().(*gn.Error)
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
}

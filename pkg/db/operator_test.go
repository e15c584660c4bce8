package db_test

import (
	"testing"

	"github.com/gnames/wilayah/internal/iodb"
	"github.com/gnames/wilayah/pkg/db"
	"github.com/stretchr/testify/assert"
)

// TestPgxOperatorImplementsInterface verifies that the operator created by
// iodb satisfies db.Operator and starts without a pool.
func TestPgxOperatorImplementsInterface(t *testing.T) {
	var op db.Operator = iodb.NewPgxOperator()
	assert.Nil(t, op.Pool())
	assert.NoError(t, op.Close())
}

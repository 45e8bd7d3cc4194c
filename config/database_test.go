package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectDatabase_EmptyURL(t *testing.T) {
	db, err := ConnectDatabase("")
	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "database URL is required")
}

func TestConnectDatabase_MalformedURL(t *testing.T) {
	db, err := ConnectDatabase("this is not a connection string =")
	require.Error(t, err)
	assert.Nil(t, db)
}

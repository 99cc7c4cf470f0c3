package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"amount=2", "density=0.5", "axis=wefts", "flag=true", "empty="})
	require.NoError(t, err)
	assert.Equal(t, 2, params["amount"])
	assert.Equal(t, 0.5, params["density"])
	assert.Equal(t, "wefts", params["axis"])
	assert.Equal(t, true, params["flag"])
	assert.Equal(t, "", params["empty"])

	_, err = parseParams([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseParams([]string{"=1"})
	assert.Error(t, err)
}

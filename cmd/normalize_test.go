//go:build !integration

package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbceylan/pinbridge-web-sub000/internal/tables"
)

func TestRunNormalize(t *testing.T) {
	var buf bytes.Buffer
	err := runNormalize(&buf, tables.MustDefault(), "Joe's Pizza & Pasta, LLC", "123 Main St., Springfield, IL 62701", "Pizzeria")
	require.NoError(t, err)

	var out normalizeOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.NotEmpty(t, out.Name)
	assert.NotContains(t, out.Name, "llc")
	assert.NotEmpty(t, out.SearchTokens)
	require.NotNil(t, out.Components)
	assert.Equal(t, "123", out.Components.StreetNumber)
	assert.Equal(t, "62701", out.Components.PostalCode)
	require.NotNil(t, out.Category)
	assert.Equal(t, "Pizzeria", out.Category.Raw)
}

func TestRunNormalize_NameOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runNormalize(&buf, tables.MustDefault(), "Café Rouge", "", ""))

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "cafe rouge", out["name"])
	assert.NotContains(t, out, "address_components")
	assert.NotContains(t, out, "category")
}

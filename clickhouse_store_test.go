package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCreateClassifiedSQL(t *testing.T) {
	sql := generateCreateClassifiedSQL("classified_names_ab12cd")

	assert.Contains(t, sql, "CREATE TABLE classified_names_ab12cd")
	assert.Contains(t, sql, "growth_ratio Float64")
	assert.Contains(t, sql, "classification String")
	assert.Contains(t, sql, "classification_confidence String")
	assert.Contains(t, sql, "ENGINE = ReplacingMergeTree PRIMARY KEY (name, sex)")
}

func TestGenerateCreateOriginsSQL(t *testing.T) {
	sql := generateCreateOriginsSQL("name_origins_ab12cd")

	assert.Contains(t, sql, "CREATE TABLE name_origins_ab12cd")
	assert.Contains(t, sql, "origin_state String")
	assert.Contains(t, sql, "confidence_score Float64")
	assert.Contains(t, sql, "n_early_states Int64")
	assert.Contains(t, sql, "ENGINE = ReplacingMergeTree PRIMARY KEY (name, sex)")
}

func TestFormatGrowth(t *testing.T) {
	assert.Equal(t, "inf", formatGrowth(math.Inf(1)))
	assert.Equal(t, "0", formatGrowth(0))
	assert.Equal(t, "3.5", formatGrowth(3.5))
}

func TestNewTableSuffix(t *testing.T) {
	a := newTableSuffix()
	b := newTableSuffix()
	assert.Len(t, a, 6)
	assert.NotEqual(t, a, b)
}

func TestSortRowsByNameSex(t *testing.T) {
	rows := [][]string{
		{"Nevaeh", "F"},
		{"Aiden", "M"},
		{"Aiden", "F"},
	}
	sortRowsByNameSex(rows)
	assert.Equal(t, [][]string{
		{"Aiden", "F"},
		{"Aiden", "M"},
		{"Nevaeh", "F"},
	}, rows)
}

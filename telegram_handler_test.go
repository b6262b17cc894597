package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brenton-keller/babynames/domain/models"
)

func TestParseNameQuery(t *testing.T) {
	tests := []struct {
		input    string
		wantName string
		wantSex  models.Sex
		wantOK   bool
	}{
		{"Khaleesi F", "Khaleesi", models.SexFemale, true},
		{"aiden m", "aiden", models.SexMale, true},
		{"Nevaeh", "Nevaeh", "", true},
		{"  Mary-Jane  f ", "Mary-Jane", models.SexFemale, true},
		{"O'Brien M", "O'Brien", models.SexMale, true},
		{"Khaleesi X", "", "", false},
		{"what can you do", "", "", false},
		{"12345", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		name, sex, ok := parseNameQuery(tt.input)
		assert.Equal(t, tt.wantOK, ok, "input %q", tt.input)
		if tt.wantOK {
			assert.Equal(t, tt.wantName, name, "input %q", tt.input)
			assert.Equal(t, tt.wantSex, sex, "input %q", tt.input)
		}
	}
}

func TestParseNameArgs(t *testing.T) {
	name, sex, ok := parseNameArgs("khaleesi_f")
	assert.True(t, ok)
	assert.Equal(t, "khaleesi", name)
	assert.Equal(t, models.SexFemale, sex)

	_, _, ok = parseNameArgs("khaleesi")
	assert.False(t, ok)
	_, _, ok = parseNameArgs("khaleesi_x")
	assert.False(t, ok)
	_, _, ok = parseNameArgs("too_many_parts")
	assert.False(t, ok)
}

package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidIdentifier(t *testing.T) {
	valid := []string{"a", "lib_1", "entity_1", "bit_vector", "A1_b2", `\my entity\`, `\a\\b\`}
	for _, name := range valid {
		assert.True(t, IsValidIdentifier(name), name)
	}
	invalid := []string{"", "_a", "a_", "a__b", "1a", "a-b", "a b", `\\`, `\a\b\`}
	for _, name := range invalid {
		assert.False(t, IsValidIdentifier(name), name)
	}
}

func TestNormalizeIdentifier(t *testing.T) {
	assert.Equal(t, "my_entity", NormalizeIdentifier("My_Entity"))
	assert.Equal(t, `\My_Entity\`, NormalizeIdentifier(`\My_Entity\`))
	assert.True(t, SameIdentifier("CLK", "clk"))
	assert.False(t, SameIdentifier(`\CLK\`, `\clk\`))
}

func TestErrorWrapsSentinel(t *testing.T) {
	_, err := NewEntity("")
	var modelErr *Error
	assert.True(t, errors.As(err, &modelErr))
	assert.Equal(t, "NewEntity", modelErr.Op)
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
	assert.Equal(t, "NewEntity: invalid identifier", err.Error())
}

package coreagentversion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_ParsesMajorMinorPatch(t *testing.T) {
	v := New("v1.2.7")
	assert.Equal(t, "v1.2.7", v.Raw())
	assert.Equal(t, "1.2.7", v.Stripped())
}

func TestNew_AddsMissingVPrefix(t *testing.T) {
	v := New("1.3.0")
	assert.Equal(t, "v1.3.0", v.Raw())
}

func TestCompare(t *testing.T) {
	assert.True(t, New("v1.2.7").LessThan(New("v1.3.0")))
	assert.True(t, New("v1.3.0").AtLeast(New("v1.3.0")))
	assert.False(t, New("v1.2.9").AtLeast(New("v1.3.0")))
	assert.Equal(t, 0, New("v2.0.0").Compare(New("v2.0.0")))
}

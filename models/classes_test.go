package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassSetLabel(t *testing.T) {
	set := NewClassSet("test", "coupling", "defect")

	assert.Equal(t, "coupling", set.Label(0))
	assert.Equal(t, "defect", set.Label(1))
	assert.Equal(t, "class_7", set.Label(7), "unknown indices get a placeholder, not a panic")
}

func TestPartClasses(t *testing.T) {
	set := PartClasses()
	assert.Len(t, set.Classes, 1)
	assert.Equal(t, "coupling", set.Label(0))
}

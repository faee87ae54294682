package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("Monsters")
	assert.True(t, ok)
	assert.Equal(t, KindMonster, k)

	k, ok = ParseKind("spell")
	assert.True(t, ok)
	assert.Equal(t, "spells", k.ResponseKey())

	_, ok = ParseKind("item")
	assert.False(t, ok)
}

package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitUsernames(t *testing.T) {
	assert.Equal(t, []string{"alice", "bob"}, splitUsernames("alice,bob"))
	assert.Equal(t, []string{"alice", "bob"}, splitUsernames(" alice , bob "))
	assert.Equal(t, []string{"alice"}, splitUsernames("alice,,"))
	assert.Nil(t, splitUsernames(""))
	assert.Nil(t, splitUsernames(" , "))
}

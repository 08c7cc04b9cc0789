package utils

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	input := map[string]int{"a": 1, "b": 2, "c": 3}

	keys := Keys(input)
	sort.Strings(keys)

	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestKeysEmptyMap(t *testing.T) {
	assert.Empty(t, Keys(map[string]int{}))
}

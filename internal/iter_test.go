package internal

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeDefines(t *testing.T) {
	assert := assert.New(t)

	a := map[string]string{"B": "1", "A": "2"}
	b := map[string]string{"C": "3", "B": "4"}

	var keys []string
	var values []string
	for key, value := range MergeDefines(maps.All(a), maps.All(b)) {
		keys = append(keys, key)
		values = append(values, value)
	}

	assert.Equal([]string{"A", "B", "C"}, keys)
	assert.Equal([]string{"2", "4", "3"}, values)
}

func TestMergeDefines_EarlyStop(t *testing.T) {
	assert := assert.New(t)

	count := 0
	for range MergeDefines(maps.All(map[int]int{1: 1, 2: 2, 3: 3})) {
		count++
		if count == 2 {
			break
		}
	}

	assert.Equal(2, count)
}

func TestMergeDefines_Empty(t *testing.T) {
	assert := assert.New(t)

	count := 0
	for range MergeDefines[string, string]() {
		count++
	}

	assert.Equal(0, count)
}

package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapper(t *testing.T) {
	doubled := Mapper([]int{1, 2, 3}, func(v int) int { return v * 2 })
	assert.Equal(t, []int{2, 4, 6}, doubled)

	empty := Mapper(nil, func(v int) int { return v })
	assert.NotNil(t, empty)
	assert.Len(t, empty, 0)
}

func TestReducer(t *testing.T) {
	sum := Reducer([]int{1, 2, 3, 4}, func(acc, v int) int { return acc + v }, 0)
	assert.Equal(t, 10, sum)

	counts := Reducer([]string{"a", "b", "a"},
		func(acc map[string]int, s string) map[string]int {
			acc[s]++
			return acc
		},
		map[string]int{})
	assert.Equal(t, map[string]int{"a": 2, "b": 1}, counts)
}

func TestIsTestEnv(t *testing.T) {
	assert.True(t, IsTestEnv())

	t.Setenv(EnvKeyGoEnv, "development")
	assert.True(t, IsDevelopment())
	assert.False(t, IsProduction())
}

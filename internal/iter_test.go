package internal

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeqConcat(t *testing.T) {
	assert := assert.New(t)

	seq := IterSeqConcat(slices.Values([]int{1, 2}), slices.Values([]int{}), slices.Values([]int{3}))
	assert.Equal([]int{1, 2, 3}, slices.Collect(seq))

	var got []int
	for val := range seq {
		got = append(got, val)
		if val == 2 {
			break
		}
	}
	assert.Equal([]int{1, 2}, got)

	assert.Empty(slices.Collect(IterSeqConcat[int]()))
}

package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory(t *testing.T) {
	assert := assert.New(t)

	mem := New(0)
	assert.Equal(DEFAULT_SIZE, mem.Len())

	_, err := mem.Read(4, 1)
	assert.ErrorIs(err, ErrUninitialized)

	assert.NoError(mem.Write(4, []byte{75}))
	value, err := mem.Byte(4)
	assert.NoError(err)
	assert.Equal(byte(75), value)

	// An initialized zero is not uninitialized.
	assert.NoError(mem.Write(5, []byte{0}))
	data, err := mem.Read(4, 2)
	assert.NoError(err)
	assert.Equal([]byte{75, 0}, data)

	_, err = mem.Read(4, 3)
	assert.ErrorIs(err, ErrUninitialized)

	_, err = mem.Read(DEFAULT_SIZE-1, 2)
	assert.ErrorIs(err, ErrAddress)
	assert.ErrorIs(mem.Write(-1, []byte{0}), ErrAddress)

	assert.NoError(mem.Deinit(4, 1))
	_, err = mem.Byte(4)
	assert.ErrorIs(err, ErrUninitialized)
}

func TestMemory_WriteOnce(t *testing.T) {
	assert := assert.New(t)

	mem := New(16)
	mem.WriteOnce = true

	assert.NoError(mem.Write(0, []byte{1, 2}))
	assert.ErrorIs(mem.Write(1, []byte{3, 4}), ErrUpdateAttempted)
	assert.NoError(mem.Write(2, []byte{3, 4}))

	data, err := mem.Read(0, 4)
	assert.NoError(err)
	assert.Equal([]byte{1, 2, 3, 4}, data)
}

func TestMemory_Ranges(t *testing.T) {
	assert := assert.New(t)

	mem := New(32)

	_, _, err := mem.ValidBounds()
	assert.ErrorIs(err, ErrUninitialized)

	assert.NoError(mem.Write(1, []byte{64, 45, 45}))
	assert.NoError(mem.Write(7, []byte{33, 34}))
	assert.NoError(mem.Write(31, []byte{99}))

	first, end, err := mem.ValidBounds()
	assert.NoError(err)
	assert.Equal(1, first)
	assert.Equal(32, end)

	start, end, err := mem.NextValidRange(0)
	assert.NoError(err)
	assert.Equal(1, start)
	assert.Equal(4, end)

	start, end, err = mem.NextValidRange(4)
	assert.NoError(err)
	assert.Equal(7, start)
	assert.Equal(9, end)

	addrs := []int{}
	datas := [][]byte{}
	for addr, data := range mem.Ranges() {
		addrs = append(addrs, addr)
		datas = append(datas, data)
	}
	assert.Equal([]int{1, 7, 31}, addrs)
	assert.Equal([][]byte{{64, 45, 45}, {33, 34}, {99}}, datas)

	_, _, err = mem.NextValidRange(32)
	assert.ErrorIs(err, ErrUninitialized)
}

func TestMemory_Truncate(t *testing.T) {
	assert := assert.New(t)

	mem := New(0)
	assert.NoError(mem.Write(0x10, []byte{1, 2, 3}))

	assert.NoError(mem.Truncate(-1))
	assert.Equal(0x13, mem.Len())

	data, err := mem.Read(0x10, 3)
	assert.NoError(err)
	assert.Equal([]byte{1, 2, 3}, data)

	assert.ErrorIs(mem.Truncate(0x20), ErrAddress)
	assert.ErrorIs(New(4).Truncate(-1), ErrUninitialized)
}

func TestInterleave(t *testing.T) {
	assert := assert.New(t)

	even := FromBytes([]byte{0x00, 0x02, 0x04})
	odd := FromBytes([]byte{0x01, 0x03, 0x05})

	mem, err := Interleave(even, odd)
	assert.NoError(err)
	assert.Equal(6, mem.Len())

	data, err := mem.Read(0, 6)
	assert.NoError(err)
	assert.Equal([]byte{0, 1, 2, 3, 4, 5}, data)

	_, err = Interleave(even, New(2))
	assert.ErrorIs(err, ErrAddress)
}

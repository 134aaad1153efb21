package uart

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// send drives levels onto the line, one per bit time from cycle, and
// returns the characters received and the cycle after the last bit.
func send(dec *Decoder, cycle float64, levels []bool) (rx []byte, end float64) {
	for n, level := range levels {
		if b, ok := dec.Tx(cycle+float64(n)*dec.BitCycles(), level); ok {
			rx = append(rx, b)
		}
	}
	end = cycle + float64(len(levels))*dec.BitCycles()
	return
}

func bits(levels ...int) (out []bool) {
	for _, level := range levels {
		out = append(out, level != 0)
	}
	return
}

func TestFrame(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(bits(0, 1, 0, 0, 0, 0, 0, 1, 0, 1), slices.Collect(Frame('A', 8, 1)))
	assert.Equal(bits(0, 1, 1, 0, 1, 1), slices.Collect(Frame(0x0b, 3, 2)))

	var got []bool
	for level := range Frame(0xff, 8, 1) {
		got = append(got, level)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(bits(0, 1), got)
}

func TestDecoder(t *testing.T) {
	assert := assert.New(t)

	dec, err := NewDecoder(16 * DEFAULT_BIT_RATE)
	require.NoError(t, err)
	assert.Equal(16.0, dec.BitCycles())

	var rx []byte
	cycle := 100.0
	for _, ch := range []byte("Hi!") {
		var got []byte
		got, cycle = send(dec, cycle, slices.Collect(Frame(uint(ch), 8, 1)))
		rx = append(rx, got...)
	}
	if b, ok := dec.Tx(cycle+1000, true); ok {
		rx = append(rx, b)
	}

	assert.Equal([]byte("Hi!"), rx)
	assert.Equal(0, dec.FramingErrors)
}

func TestDecoder_Options(t *testing.T) {
	assert := assert.New(t)

	dec, err := NewDecoder(1e6,
		WithBitRate(9600),
		WithDataBits(7),
		WithStopBits(2),
		WithOversampling(8),
	)
	require.NoError(t, err)
	assert.InDelta(104.1666, dec.BitCycles(), 0.001)

	rx, cycle := send(dec, 50.5, slices.Collect(Frame(0x5a, 7, 2)))
	assert.Empty(rx)

	b, ok := dec.Tx(cycle+5000, true)
	assert.True(ok)
	assert.Equal(byte(0x5a), b)
}

func TestDecoder_FramingErrors(t *testing.T) {
	assert := assert.New(t)

	dec, err := NewDecoder(16*DEFAULT_BIT_RATE, WithOversampling(DEFAULT_OVERSAMPLING))
	require.NoError(t, err)
	dec.Verbose = true

	// A low stop bit, then the start bit of a new frame seen in the break.
	rx, cycle := send(dec, 100, bits(0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1))
	assert.Empty(rx)
	_, ok := dec.Tx(cycle+1000, true)
	assert.False(ok)
	assert.Equal(2, dec.FramingErrors)

	// The decoder recovers on the next good frame.
	rx, cycle = send(dec, cycle+2000, slices.Collect(Frame(0x55, 8, 1)))
	assert.Empty(rx)
	b, ok := dec.Tx(cycle+1000, true)
	assert.True(ok)
	assert.Equal(byte(0x55), b)

	// A glitch shorter than half a bit is a bad start bit.
	dec, err = NewDecoder(16 * DEFAULT_BIT_RATE)
	require.NoError(t, err)
	_, ok = dec.Tx(100, false)
	assert.False(ok)
	_, ok = dec.Tx(104, true)
	assert.False(ok)
	_, ok = dec.Tx(500, true)
	assert.False(ok)
	assert.Equal(1, dec.FramingErrors)
}

func TestNewDecoder_Invalid(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		clockHz float64
		opts    []Option
		err     ErrConfig
	}{
		{0, nil, "clock"},
		{-1e6, nil, "clock"},
		{math.NaN(), nil, "clock"},
		{math.Inf(1), nil, "clock"},
		{1e6, []Option{WithBitRate(0)}, "bit rate"},
		{1e6, []Option{WithBitRate(-9600)}, "bit rate"},
		{1e6, []Option{WithOversampling(0)}, "oversampling"},
		{1e6, []Option{WithDataBits(0)}, "data bits"},
		{1e6, []Option{WithStopBits(0)}, "stop bits"},
		{1e6, []Option{WithDataBits(31), WithStopBits(2)}, "stop bits"},
	}

	for _, entry := range table {
		dec, err := NewDecoder(entry.clockHz, entry.opts...)
		assert.Nil(dec, string(entry.err))
		assert.ErrorIs(err, ErrConfig(""), string(entry.err))
		assert.Equal(entry.err, err, string(entry.err))
	}

	dec, err := NewDecoder(1e6, WithOversampling(1))
	assert.NoError(err)
	assert.NotNil(dec)
}

func TestDecoder_InfiniteCycle(t *testing.T) {
	assert := assert.New(t)

	dec, err := NewDecoder(16 * DEFAULT_BIT_RATE)
	require.NoError(t, err)

	_, ok := dec.Tx(math.Inf(1), false)
	assert.False(ok)
	assert.False(dec.line)
	assert.Equal(0.0, dec.sampleCycle)

	_, ok = dec.Tx(100, true)
	assert.False(ok)
	assert.Equal(0, dec.FramingErrors)
}

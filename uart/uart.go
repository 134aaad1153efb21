// Package uart decodes an asynchronous serial line that is driven by
// software and sampled against the CPU clock.
package uart

import (
	"iter"
	"log"
	"math"

	"github.com/brouhaha/glacial/translate"
)

var f = translate.From

// ErrConfig names a decoder setting that is out of range.
type ErrConfig string

func (err ErrConfig) Error() string {
	return f("invalid uart setting '%s'", string(err))
}

func (err ErrConfig) Is(target error) bool {
	_, ok := target.(ErrConfig)
	return ok
}

const (
	DEFAULT_BIT_RATE     = 115200 // Default bit rate, in Hz.
	DEFAULT_DATA_BITS    = 8      // Default character width.
	DEFAULT_STOP_BITS    = 1      // Default stop bits.
	DEFAULT_OVERSAMPLING = 16     // Default samples per bit.

	MAX_FRAME_BITS = 32 // Limit on data plus stop bits.
)

// Option configures a Decoder.
type Option func(dec *Decoder)

// WithBitRate sets the line bit rate in Hz.
func WithBitRate(hz float64) Option {
	return func(dec *Decoder) { dec.bitRate = hz }
}

// WithDataBits sets the number of data bits per character.
func WithDataBits(bits int) Option {
	return func(dec *Decoder) { dec.dataBits = bits }
}

// WithStopBits sets the number of stop bits per character.
func WithStopBits(bits int) Option {
	return func(dec *Decoder) { dec.stopBits = bits }
}

// WithOversampling sets the number of line samples per bit.
func WithOversampling(samples int) Option {
	return func(dec *Decoder) { dec.oversampling = samples }
}

// Decoder recovers characters from the transmit line of a UART.
type Decoder struct {
	Verbose       bool // If set, logs framing errors.
	FramingErrors int  // Count of start or stop bit errors.

	bitRate      float64
	dataBits     int
	stopBits     int
	oversampling int

	bitCycles   float64
	line        bool
	sampleCycle float64

	idle    bool
	counter int
	bitNum  int
	value   uint
}

func positive(value float64) bool {
	return value > 0 && !math.IsInf(value, 1)
}

// NewDecoder returns a decoder for a line sampled by a clock of clockHz.
// The clock, bit rate and oversampling must be positive, and a frame needs
// at least one data and one stop bit.
func NewDecoder(clockHz float64, opts ...Option) (dec *Decoder, err error) {
	dec = &Decoder{
		bitRate:      DEFAULT_BIT_RATE,
		dataBits:     DEFAULT_DATA_BITS,
		stopBits:     DEFAULT_STOP_BITS,
		oversampling: DEFAULT_OVERSAMPLING,
		line:         true,
		idle:         true,
	}
	for _, opt := range opts {
		opt(dec)
	}

	switch {
	case !positive(clockHz):
		err = ErrConfig("clock")
	case !positive(dec.bitRate):
		err = ErrConfig("bit rate")
	case dec.oversampling < 1:
		err = ErrConfig("oversampling")
	case dec.dataBits < 1:
		err = ErrConfig("data bits")
	case dec.stopBits < 1 || dec.dataBits+dec.stopBits > MAX_FRAME_BITS:
		err = ErrConfig("stop bits")
	}
	if err != nil {
		dec = nil
		return
	}

	dec.bitCycles = clockHz / dec.bitRate

	return
}

// BitCycles returns the length of one bit in clock cycles.
func (dec *Decoder) BitCycles() float64 {
	return dec.bitCycles
}

func (dec *Decoder) framingError(what string) {
	dec.FramingErrors++
	dec.idle = true
	if dec.Verbose {
		log.Printf("uart: framing error - %s bit", what)
	}
}

// sample processes one line sample.
func (dec *Decoder) sample(level bool) (b byte, ok bool) {
	if dec.idle {
		if level {
			return
		}
		dec.idle = false
		dec.bitNum = -1
		dec.value = 0
		dec.counter = dec.oversampling / 2
		return
	}

	dec.counter--
	if dec.counter > 0 {
		return
	}
	dec.counter = dec.oversampling

	if dec.bitNum < 0 {
		if level {
			dec.framingError("start")
			return
		}
		dec.bitNum = 0
		return
	}

	if level {
		dec.value |= 1 << dec.bitNum
	}
	dec.bitNum++
	if dec.bitNum < dec.dataBits+dec.stopBits {
		return
	}

	stop := uint(1)<<dec.stopBits - 1
	if dec.value>>dec.dataBits != stop {
		dec.framingError("stop")
		return
	}

	dec.idle = true
	b = byte(dec.value & (1<<dec.dataBits - 1))
	ok = true
	return
}

// Tx reports that the line changed to value at cycle. All samples up to
// cycle see the previous level. If a character completed, it is returned.
// An infinite cycle only latches the level.
func (dec *Decoder) Tx(cycle float64, value bool) (b byte, ok bool) {
	if math.IsInf(cycle, 1) {
		dec.line = value
		return
	}
	step := dec.bitCycles / float64(dec.oversampling)
	for dec.sampleCycle <= cycle {
		if rx, got := dec.sample(dec.line); got {
			b, ok = rx, true
		}
		dec.sampleCycle += step
	}
	dec.line = value
	return
}

// Frame returns the line levels of one character: a start bit, the data
// bits LSB first, then the stop bits.
func Frame(value uint, dataBits, stopBits int) iter.Seq[bool] {
	return func(yield func(level bool) bool) {
		if !yield(false) {
			return
		}
		for n := range dataBits {
			if !yield(((value >> n) & 1) == 1) {
				return
			}
		}
		for range stopBits {
			if !yield(true) {
				return
			}
		}
	}
}

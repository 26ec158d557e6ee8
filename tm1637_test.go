package tm1637

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"

	"periph.io/x/devices/v3/tm1637/tm1637test"
)

// newTestDev opens a Dev on a simulated chip and forgets the init frames.
func newTestDev(t *testing.T, opts *Opts) (*Dev, *tm1637test.Chip, *tm1637test.Clock) {
	t.Helper()
	chip := tm1637test.NewChip()
	clock := tm1637test.NewClock()
	o := DefaultOpts
	if opts != nil {
		o = *opts
	}
	o.Clock = clock
	dev, err := New(chip.CLK, chip.DIO, &o)
	require.NoError(t, err)
	chip.Reset()
	clock.Reset()
	return dev, chip, clock
}

// delaysPerFrame is the number of timing units of a frame of n bytes: start,
// 8 data and 1 ack clock per byte, stop.
func delaysPerFrame(n int) int {
	return 2 + n*27 + 2
}

func TestOptsValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    *Opts
		wantErr error
	}{
		{"nil options (uses defaults)", nil, nil},
		{"valid 4 digits", &Opts{Brightness: 7, Digits: 4}, nil},
		{"valid 1 digit", &Opts{Brightness: 0, Digits: 1}, nil},
		{"valid 6 digits", &Opts{Brightness: 3, Digits: 6}, nil},
		{"digits zero", &Opts{Brightness: 7, Digits: 0}, ErrDigits},
		{"digits > 6", &Opts{Brightness: 7, Digits: 7}, ErrDigits},
		{"brightness negative", &Opts{Brightness: -1, Digits: 4}, ErrBrightness},
		{"brightness > 7", &Opts{Brightness: 8, Digits: 4}, ErrBrightness},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chip := tm1637test.NewChip()
			opts := tt.opts
			if opts != nil {
				o := *opts
				o.Clock = tm1637test.NewClock()
				opts = &o
			}
			dev, err := New(chip.CLK, chip.DIO, opts)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, dev)
				assert.Empty(t, chip.Frames(), "nothing is sent for invalid options")
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, dev)
		})
	}
}

func TestNewInitSequence(t *testing.T) {
	chip := tm1637test.NewChip()
	clock := tm1637test.NewClock()

	dev, err := New(chip.CLK, chip.DIO, &Opts{Brightness: 5, Digits: 4, Clock: clock})
	require.NoError(t, err)

	assert.Equal(t, [][]byte{{0x40}, {0x8D}}, chip.Frames())
	assert.True(t, chip.On())
	assert.Equal(t, 5, chip.Brightness())
	assert.Equal(t, 5, dev.Brightness())
	assert.Equal(t, 4, dev.Digits())

	// Both lines idle high after a stop condition.
	assert.Equal(t, gpio.High, chip.CLK.Level())
	assert.Equal(t, gpio.High, chip.DIO.Level())

	sleeps := clock.Sleeps()
	assert.Len(t, sleeps, 1+2*delaysPerFrame(1))
	for _, d := range sleeps {
		require.Equal(t, DefaultDelay, d)
	}
}

func TestDelayIsConfigurable(t *testing.T) {
	dev, _, clock := newTestDev(t, &Opts{Brightness: 7, Digits: 4, Delay: 4 * time.Microsecond})

	require.NoError(t, dev.SetBrightness(1))
	sleeps := clock.Sleeps()
	require.Len(t, sleeps, 2*delaysPerFrame(1))
	for _, d := range sleeps {
		require.Equal(t, 4*time.Microsecond, d)
	}
}

func TestSetBrightness(t *testing.T) {
	dev, chip, _ := newTestDev(t, nil)

	for level := 0; level <= MaxBrightness; level++ {
		chip.Reset()
		require.NoError(t, dev.SetBrightness(level))
		assert.Equal(t, level, dev.Brightness())
		assert.Equal(t, [][]byte{{0x40}, {0x88 | byte(level)}}, chip.Frames())
		assert.Equal(t, level, chip.Brightness())
	}

	require.NoError(t, dev.SetBrightness(4))
	for _, level := range []int{-1, 8, 100} {
		chip.Reset()
		assert.ErrorIs(t, dev.SetBrightness(level), ErrBrightness)
		assert.Equal(t, 4, dev.Brightness(), "brightness unchanged after %d", level)
		assert.Empty(t, chip.Frames())
	}
}

func TestWrite(t *testing.T) {
	dev, chip, clock := newTestDev(t, nil)

	require.NoError(t, dev.Write([]byte{0x3F, 0x06 | 0x80, 0x5B, 0x4F}, 0))
	assert.Equal(t, [][]byte{{0x40}, {0xC0, 0x3F, 0x86, 0x5B, 0x4F}, {0x8F}}, chip.Frames())
	assert.Equal(t, [tm1637test.RAMSize]byte{0x3F, 0x86, 0x5B, 0x4F}, chip.RAM())
	assert.Len(t, clock.Sleeps(), delaysPerFrame(1)+delaysPerFrame(5)+delaysPerFrame(1))

	chip.Reset()
	require.NoError(t, dev.Write([]byte{0x77}, 3))
	assert.Equal(t, [][]byte{{0x40}, {0xC3, 0x77}, {0x8F}}, chip.Frames())
	assert.Equal(t, byte(0x77), chip.RAM()[3])
}

func TestWritePositionOutOfRange(t *testing.T) {
	dev, chip, clock := newTestDev(t, nil)

	for _, pos := range []int{-1, 4, 5, 100} {
		assert.ErrorIs(t, dev.Write([]byte{0x3F}, pos), ErrPosition, "pos %d", pos)
	}
	assert.Empty(t, chip.Frames(), "nothing is sent for a bad position")
	assert.Empty(t, clock.Sleeps())
}

func TestWriteRestoresDisplayAfterHalt(t *testing.T) {
	dev, chip, _ := newTestDev(t, nil)

	require.NoError(t, dev.Halt())
	assert.Equal(t, [][]byte{{0x87}}, chip.Frames())
	assert.False(t, chip.On())

	require.NoError(t, dev.Write([]byte{0x06}, 0))
	assert.True(t, chip.On())
	assert.Equal(t, 7, chip.Brightness())
}

func TestClear(t *testing.T) {
	dev, chip, _ := newTestDev(t, &Opts{Brightness: 7, Digits: 6})

	require.NoError(t, dev.Write([]byte{1, 2, 3, 4, 5, 6}, 0))
	require.NoError(t, dev.Clear())
	assert.Equal(t, [tm1637test.RAMSize]byte{}, chip.RAM())
}

func TestPinErrors(t *testing.T) {
	boom := errors.New("boom")

	chip := tm1637test.NewChip()
	chip.CLK.Fail(boom)
	_, err := New(chip.CLK, chip.DIO, &Opts{Brightness: 7, Digits: 4, Clock: tm1637test.NewClock()})
	assert.ErrorIs(t, err, boom)
	assert.EqualError(t, err, "tm1637: failed to pull CLK low: boom")

	dev, chip, _ := newTestDev(t, nil)
	chip.DIO.Fail(boom)
	err = dev.Write([]byte{0x3F}, 0)
	assert.ErrorIs(t, err, boom)
	assert.EqualError(t, err, "tm1637: failed to drive DIO: boom")

	chip.DIO.Fail(nil)
	assert.NoError(t, dev.Write([]byte{0x3F}, 0), "a new frame clears the previous pin error")
	assert.Equal(t, byte(0x3F), chip.RAM()[0])
}

func TestEncode(t *testing.T) {
	dev, _, _ := newTestDev(t, nil)
	got, err := dev.Encode("1.2")
	assert.Error(t, err, "plain modules have no decimal point character")
	assert.Nil(t, got)

	dec, _, _ := newTestDev(t, &Opts{Brightness: 7, Digits: 4, Decimal: true})
	got, err = dec.Encode("1.2")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x86, 0x5B}, got)
}

func TestDevString(t *testing.T) {
	dev := &Dev{digits: 4}
	assert.Equal(t, "tm1637.Dev{4 digits}", dev.String())
}

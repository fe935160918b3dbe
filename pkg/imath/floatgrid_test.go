package imath

import(
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rampGrid(w, h int) FloatGrid {
	fg := NewFloatGrid(w, h)
	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			fg.Set(x, y, float64(y*w+x))
		}
	}
	return fg
}

func TestSubSampleUpSampleBlock(t *testing.T) {
	fg := rampGrid(10, 7)

	sub := fg.SubSample(2)
	assert.Equal(t, 5, sub.Dx())
	assert.Equal(t, 4, sub.Dy())
	assert.Equal(t, fg.Get(4, 6), sub.Get(2, 3))

	up := sub.UpSampleBlock(2, 10, 7)
	assert.Equal(t, 10, up.Dx())
	assert.Equal(t, 7, up.Dy())

	// every decimated sample survives the round trip in place
	for y:=0; y<7; y+=2 {
		for x:=0; x<10; x+=2 {
			assert.Equal(t, fg.Get(x, y), up.Get(x, y))
		}
	}
}

func TestResizeNearestIsSampling(t *testing.T) {
	fg := rampGrid(6, 4)
	big := fg.ResizeNearest(12, 8)

	assert.Equal(t, 12, big.Dx())
	assert.Equal(t, 8, big.Dy())

	// no interpolation: every output value exists in the input
	seen := map[float64]bool{}
	for y:=0; y<4; y++ {
		for x:=0; x<6; x++ {
			seen[fg.Get(x, y)] = true
		}
	}
	for y:=0; y<8; y++ {
		for x:=0; x<12; x++ {
			assert.True(t, seen[big.Get(x, y)], "value at %d,%d not from source", x, y)
		}
	}
}

func TestPadMirror(t *testing.T) {
	fg := rampGrid(6, 4)
	padded := fg.PadMirror()

	require.Equal(t, 12, padded.Dx())
	require.Equal(t, 8, padded.Dy())

	// center holds the original
	for y:=0; y<4; y++ {
		for x:=0; x<6; x++ {
			assert.Equal(t, fg.Get(x, y), padded.Get(3+x, 2+y))
		}
	}

	// left band reflects the left half
	assert.Equal(t, fg.Get(2, 0), padded.Get(0, 2))
	assert.Equal(t, fg.Get(0, 0), padded.Get(2, 2))
	// right band reflects the right half
	assert.Equal(t, fg.Get(5, 1), padded.Get(9, 3))
	// top band reflects the top half
	assert.Equal(t, fg.Get(0, 1), padded.Get(3, 0))
	// corners reflect on both axes
	assert.Equal(t, fg.Get(2, 1), padded.Get(0, 0))
}

func TestFloorAtClampsNaN(t *testing.T) {
	fg := NewFloatGrid(3, 1)
	fg.Set(0, 0, math.NaN())
	fg.Set(1, 0, -2.0)
	fg.Set(2, 0, 0.5)

	fg.FloorAt(1e-4)

	assert.Equal(t, 1e-4, fg.Get(0, 0))
	assert.Equal(t, 1e-4, fg.Get(1, 0))
	assert.Equal(t, 0.5, fg.Get(2, 0))
}

func TestStats(t *testing.T) {
	fg := rampGrid(10, 7)
	assert.Equal(t, "fg[10x7, vals{0.000000,69.000000}]", fg.Stats())
}

func TestMinMaxAtPercentile(t *testing.T) {
	fg := rampGrid(10, 10) // values 0..99, the zero is skipped
	min, max := fg.MinMaxAtPercentile(0.1, 0.9)

	assert.InDelta(t, 10.0, min, 1.5)
	assert.InDelta(t, 90.0, max, 1.5)

	lo, hi := fg.MinMaxAtPercentile(0.0, 1.0)
	assert.Equal(t, 1.0, lo)
	assert.Equal(t, 99.0, hi)
}

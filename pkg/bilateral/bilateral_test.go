package bilateral

import(
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdrtone/icam06/pkg/fourier"
	"github.com/hdrtone/icam06/pkg/imath"
)

func TestPiecewiseConstantPassThrough(t *testing.T) {
	img := imath.NewFloatGrid(16, 16)
	for y:=0; y<16; y++ {
		for x:=0; x<16; x++ {
			img.Set(x, y, 0.5)
		}
	}

	out := Piecewise(img, 1)
	for y:=0; y<16; y++ {
		for x:=0; x<16; x++ {
			assert.InDelta(t, 0.5, out.Get(x, y), 1e-9)
		}
	}
}

// effectiveKernel recovers the spatial kernel the frequency path
// actually applies - including the real-part and negative-clamp
// steps baked into the frequency kernel - by inverting it with a
// direct O(n^2) inverse DFT. The kernel is real and even, so the
// cosine sum is the whole inverse.
func effectiveKernel(fs imath.FloatGrid) imath.FloatGrid {
	h, w := fs.Dy(), fs.Dx()
	ks := fs.NewFromThis()

	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			sum := 0.0
			for v:=0; v<h; v++ {
				for u:=0; u<w; u++ {
					ph := 2 * math.Pi * (float64(u*x)/float64(w) + float64(v*y)/float64(h))
					sum += fs.Get(u, v) * math.Cos(ph)
				}
			}
			ks.Set(x, y, sum/float64(w*h))
		}
	}
	return ks
}

// Direct O(n^2) reference: the same per-segment Nadaraya-Watson
// smoothing and tent interpolation as Piecewise, but with the
// circular convolution evaluated as an explicit spatial sum against
// the effective kernel instead of in the frequency domain. At z=1
// the decimation is a no-op, so Piecewise must agree with this to
// FFT precision.
func referenceBilateral(in imath.FloatGrid) imath.FloatGrid {
	yDim, xDim := in.Dy(), in.Dx()
	sigmaS := 2.0 * float64(xDim) / 100.0

	maxI, minI := in.Max(), in.Min()
	inSeg := int(math.Round((maxI - minI) / sigmaR))

	ks := effectiveKernel(fourier.GaussianKernel(fourier.DistanceMap(yDim, xDim), sigmaS))

	out := in.NewFromThis()
	for j:=0; j<=inSeg; j++ {
		valueI := minI
		if inSeg > 0 {
			valueI = minI + float64(j)*(maxI-minI)/float64(inSeg)
		}

		for py:=0; py<yDim; py++ {
			for px:=0; px<xDim; px++ {
				num, den := 0.0, 0.0
				for qy:=0; qy<yDim; qy++ {
					for qx:=0; qx<xDim; qx++ {
						// circular convolution, so spatial offsets wrap
						k := ks.Get((px-qx+xDim)%xDim, (py-qy+yDim)%yDim)

						rr := (in.Get(qx, qy) - valueI) / sigmaR
						g := math.Exp(-0.5 * rr * rr)
						num += k * g * in.Get(qx, qy)
						den += k * g
					}
				}
				if den < denomFloor { den = denomFloor }

				w := 1.0
				if inSeg > 0 {
					w = 1.0 - math.Abs(in.Get(px, py)-valueI)*float64(inSeg)/(maxI-minI)
					if w < 0 { w = 0 }
				}
				out.Set(px, py, out.Get(px, py)+(num/den)*w)
			}
		}
	}
	return out
}

func TestPiecewiseMatchesBruteForce(t *testing.T) {
	img := imath.NewFloatGrid(8, 8)
	for y:=0; y<8; y++ {
		for x:=0; x<8; x++ {
			img.Set(x, y, float64(y*8+x)/63.0*2.0) // ramp spanning 2 log units
		}
	}

	got := Piecewise(img, 1)
	want := referenceBilateral(img)

	for y:=0; y<8; y++ {
		for x:=0; x<8; x++ {
			assert.InDelta(t, want.Get(x, y), got.Get(x, y), 1e-6, "pixel %d,%d", x, y)
		}
	}
}

func TestDecomposeReconstruction(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	// wide enough that the spatial kernel spans several pixels -
	// the filter's operating regime
	w, h := 320, 240
	img := imath.NewFloatGrid(w, h)
	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			img.Set(x, y, math.Pow(10, rng.Float64()*3-1)) // radiances across 3 decades
		}
	}
	img.Set(0, 0, 0.0)      // floored to 1e-4 before the log
	img.Set(1, 0, -3.0)

	base, detail := Decompose(img)

	clamped := img.Copy()
	clamped.FloorAt(1e-4)

	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			recon := base.Get(x, y) * detail.Get(x, y)
			want := clamped.Get(x, y)
			require.InDelta(t, want, recon, 1e-4*want, "pixel %d,%d", x, y)

			require.Greater(t, base.Get(x, y), 0.0)
			require.Greater(t, detail.Get(x, y), 0.0)
		}
	}

	// the degenerate floored pixels reconstruct to the floor itself
	assert.InDelta(t, 1e-4, base.Get(0, 0)*detail.Get(0, 0), 1e-8)
	assert.InDelta(t, 1e-4, base.Get(1, 0)*detail.Get(1, 0), 1e-8)
}

func TestDecomposeBaseBounded(t *testing.T) {
	img := imath.NewFloatGrid(256, 64)
	for y:=0; y<64; y++ {
		for x:=0; x<256; x++ {
			img.Set(x, y, 1.0+float64(x))
		}
	}

	base, _ := Decompose(img)
	assert.LessOrEqual(t, base.Max(), img.Max()*(1+1e-9))
}

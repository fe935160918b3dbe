package fourier

// Wraps the go-dsp FFT routines for use in frequency-domain image
// filtering, as needed by the bilateral filter and the adapted-white
// estimator.
//
// All the kernels we build are circularly symmetric Gaussians,
// expressed on a toroidal distance map. Building them that way means
// the spectrum comes out of the FFT with its DC component at [0,0],
// and no fftshift-style recentering is ever needed.

import(
	"math"

	"github.com/mjibson/go-dsp/fft"

	"github.com/hdrtone/icam06/pkg/imath"
)

// DistanceMap returns a grid where each cell holds the euclidean
// distance to the nearest image of the origin under periodic tiling:
//
//	D[y,x] = sqrt(min(x, cols-1-x)^2 + min(y, rows-1-y)^2)
//
// This is the IDL DIST function. D[0,0] is 0, and the map is
// symmetric under reflection about either axis.
func DistanceMap(rows, cols int) imath.FloatGrid {
	d := imath.NewFloatGrid(cols, rows)

	for y:=0; y<rows; y++ {
		dy := float64(y)
		if rows-1-y < y { dy = float64(rows-1-y) }
		for x:=0; x<cols; x++ {
			dx := float64(x)
			if cols-1-x < x { dx = float64(cols-1-x) }
			d.Set(x, y, math.Sqrt(dx*dx + dy*dy))
		}
	}
	return d
}

// GaussianKernel builds a real, non-negative, DC-normalized frequency
// domain low-pass kernel from a distance map and a spatial sigma.
// Multiplying a spectrum by it and inverse transforming performs a
// unit-gain smoothing: a constant image passes through unchanged.
func GaussianKernel(dist imath.FloatGrid, sigma float64) imath.FloatGrid {
	k := dist.NewFromThis()
	for y:=0; y<k.Dy(); y++ {
		for x:=0; x<k.Dx(); x++ {
			r := dist.Get(x, y) / sigma
			k.Set(x, y, math.Exp(-r*r))
		}
	}

	// normalize the spatial peak; D[0,0]=0 so this is exp(0)=1
	// already, but keep the step so the kernel is well defined for
	// any distance map
	peak := k.Get(0, 0)
	spec := fft.FFT2Real(k.Rows())

	// a true Gaussian spectrum is non-negative; any negative real
	// component is FFT round-off noise, so clamp it away
	fs := k.NewFromThis()
	for y:=0; y<fs.Dy(); y++ {
		for x:=0; x<fs.Dx(); x++ {
			v := real(spec[y][x]) / peak
			if v < 0 { v = 0 }
			fs.Set(x, y, v)
		}
	}

	dc := fs.Get(0, 0)
	for y:=0; y<fs.Dy(); y++ {
		for x:=0; x<fs.Dx(); x++ {
			fs.Set(x, y, fs.Get(x, y)/dc)
		}
	}
	return fs
}

// Convolve low-passes `img` by multiplying its spectrum with the
// frequency kernel and inverse transforming, keeping the real part.
func Convolve(img, kernel imath.FloatGrid) imath.FloatGrid {
	spec := fft.FFT2Real(img.Rows())
	for y:=0; y<img.Dy(); y++ {
		for x:=0; x<img.Dx(); x++ {
			spec[y][x] *= complex(kernel.Get(x, y), 0)
		}
	}

	spatial := fft.IFFT2(spec)
	out := img.NewFromThis()
	for y:=0; y<out.Dy(); y++ {
		for x:=0; x<out.Dx(); x++ {
			out.Set(x, y, real(spatial[y][x]))
		}
	}
	return out
}

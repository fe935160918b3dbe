package bilateral

// Implements the piecewise-linear approximation to the bilateral
// filter from Durand & Dorsey '02, "Fast Bilateral Filtering for the
// Display of High-Dynamic-Range Images", as used by iCAM06: the
// continuous range kernel is discretized into a small number of
// intensity segments, each segment is smoothed with one pair of
// frequency-domain convolutions, and the per-pixel output is a tent
// interpolation between neighbouring segments.

import(
	"math"

	"github.com/hdrtone/icam06/pkg/fourier"
	"github.com/hdrtone/icam06/pkg/imath"
)

const(
	sigmaR     = 0.35  // range kernel sigma, in log10 intensity units
	denomFloor = 1e-10 // Nadaraya-Watson denominator floor
	radFloor   = 1e-4  // radiance floor applied before taking logs
	detailMax  = 12.0  // log-domain detail beyond this is degenerate, zero it
)

// Piecewise bilateral-filters a single channel image (already in log
// space), decimating by stride z to keep the per-segment FFT cost
// down. With z=1 it converges on a direct bilateral evaluation.
func Piecewise(in imath.FloatGrid, z int) imath.FloatGrid {
	yDim, xDim := in.Dy(), in.Dx()
	sigmaS := 2.0 * float64(xDim) / float64(z) / 100.0

	maxI, minI := in.Max(), in.Min()
	inSeg := int(math.Round((maxI - minI) / sigmaR))

	kernel := fourier.GaussianKernel(fourier.DistanceMap(yDim, xDim), sigmaS)

	// the kernel is computed at full resolution and is band limited,
	// so its frequency samples can be decimated by the same stride as
	// the image
	ip := in.SubSample(z)
	fsp := kernel.SubSample(z)

	out := in.NewFromThis()
	for j:=0; j<=inSeg; j++ {
		valueI := minI
		if inSeg > 0 {
			valueI = minI + float64(j)*(maxI-minI)/float64(inSeg)
		}

		// range weights at the working resolution
		jG := ip.NewFromThis()
		for y:=0; y<jG.Dy(); y++ {
			for x:=0; x<jG.Dx(); x++ {
				r := (ip.Get(x, y) - valueI) / sigmaR
				jG.Set(x, y, math.Exp(-0.5*r*r))
			}
		}

		jH := ip.NewFromThis()
		for y:=0; y<jH.Dy(); y++ {
			for x:=0; x<jH.Dx(); x++ {
				jH.Set(x, y, jG.Get(x, y)*ip.Get(x, y))
			}
		}

		jK := fourier.Convolve(jG, fsp)
		sjH := fourier.Convolve(jH, fsp)

		// Nadaraya-Watson normalization; the floor keeps flat or
		// degenerate regions from blowing up the division
		jJ := ip.NewFromThis()
		for y:=0; y<jJ.Dy(); y++ {
			for x:=0; x<jJ.Dx(); x++ {
				den := jK.Get(x, y)
				if den < denomFloor { den = denomFloor }
				jJ.Set(x, y, sjH.Get(x, y)/den)
			}
		}

		resp := jJ.UpSampleBlock(z, xDim, yDim)

		// tent weight for this segment; depends only on valueI so it
		// is recomputed fresh each pass and consumed immediately
		for y:=0; y<yDim; y++ {
			for x:=0; x<xDim; x++ {
				w := 1.0
				if inSeg > 0 {
					w = 1.0 - math.Abs(in.Get(x, y)-valueI)*float64(inSeg)/(maxI-minI)
					if w < 0 { w = 0 }
				}
				out.Set(x, y, out.Get(x, y)+resp.Get(x, y)*w)
			}
		}
	}

	return out
}

// Decompose splits a positive linear-domain image into a smooth base
// layer and a high-frequency detail layer, working in log10 space.
// base*detail reconstructs the floor-clamped input.
func Decompose(img imath.FloatGrid) (imath.FloatGrid, imath.FloatGrid) {
	work := img.Copy()
	work.FloorAt(radFloor)

	logImg := work.NewFromThis()
	for y:=0; y<logImg.Dy(); y++ {
		for x:=0; x<logImg.Dx(); x++ {
			logImg.Set(x, y, math.Log10(work.Get(x, y)))
		}
	}

	z := 4
	if min(img.Dx(), img.Dy()) < 1024 {
		z = 2
	}

	base := Piecewise(logImg, z)
	base.CeilingAt(logImg.Max()) // overshoot above the log max causes halos

	detail := logImg.NewFromThis()
	for y:=0; y<detail.Dy(); y++ {
		for x:=0; x<detail.Dx(); x++ {
			d := logImg.Get(x, y) - base.Get(x, y)
			if d > detailMax { d = 0 }
			detail.Set(x, y, d)
		}
	}

	for y:=0; y<base.Dy(); y++ {
		for x:=0; x<base.Dx(); x++ {
			base.Set(x, y, math.Pow(10, base.Get(x, y)))
			detail.Set(x, y, math.Pow(10, detail.Get(x, y)))
		}
	}

	return base, detail
}

func min(a, b int) int {
	if a < b { return a }
	return b
}

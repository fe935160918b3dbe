package icam06

import(
	"github.com/hdrtone/icam06/pkg/fourier"
	"github.com/hdrtone/icam06/pkg/imath"
)

// AdaptedWhite produces a smooth low-pass version of the image, used
// as the local adaptation reference (the "adapted white") by the
// color appearance stages. `d` controls the spatial extent of the
// smoothing: the Gaussian sigma is max(width,height)/d at the working
// resolution, so smaller d means a smoother, more global estimate.
//
// The image is decimated to a working resolution picked from its
// smaller dimension, mirror padded to double size so the periodic FFT
// convolution sees no hard boundary, filtered per channel, cropped
// back, and nearest-neighbor upsampled to the original resolution.
func AdaptedWhite(img *imath.RGBGrid, d float64) imath.RGBGrid {
	sx, sy := img.Dx(), img.Dy()

	z := 32
	switch m := minInt(sx, sy); {
	case m < 64:   z = 1
	case m < 256:  z = 2
	case m < 512:  z = 4
	case m < 1024: z = 8
	case m < 2056: z = 16
	}

	small := img.SubSample(z)
	xDim, yDim := small.Dx(), small.Dy()

	sigma := float64(maxInt(xDim, yDim)) / d
	kernel := fourier.GaussianKernel(fourier.DistanceMap(2*yDim, 2*xDim), sigma)

	var ch [3]imath.FloatGrid
	for c:=0; c<3; c++ {
		padded := small.Channel(c).PadMirror()
		filtered := fourier.Convolve(padded, kernel)
		filtered.FloorAt(0) // negative values here are FFT noise
		ch[c] = filtered.Crop(xDim/2, yDim/2, xDim, yDim)
	}

	white := imath.RGBFromChannels(ch[0], ch[1], ch[2])
	return white.ResizeNearest(sx, sy)
}

func minInt(a, b int) int {
	if a < b { return a }
	return b
}

func maxInt(a, b int) int {
	if a > b { return a }
	return b
}

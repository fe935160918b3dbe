package imath

import(
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/fogleman/gg" // Move to https://pkg.go.dev/golang.org/x/image/font#Drawer sometime
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/floats"
)

// A FloatGrid is a grid of floats, with some operations
type FloatGrid struct {
	stride int
	values []float64
}

func NewFloatGrid(w, h int) FloatGrid {
	return FloatGrid{
		stride: w,
		values: make([]float64, w*h),
	}
}

func (g1 *FloatGrid)NewFromThis() FloatGrid  { return NewFloatGrid(g1.Dx(), g1.Dy()) }
func (fg *FloatGrid)Set(x, y int, v float64) { fg.values[fg.stride*y + x] = v }
func (fg *FloatGrid)Get(x, y int) float64    { return fg.values[fg.stride*y + x] }
func (fg *FloatGrid)Dx() int                 { return fg.stride }
func (fg *FloatGrid)Dy() int                 { return len(fg.values) / fg.stride }

func (g1 *FloatGrid)Copy() *FloatGrid {
	g2 := FloatGrid{stride: g1.stride, values:make([]float64, len(g1.values))}
	copy(g2.values, g1.values)
	return &g2
}

// Rows copies the grid out as a slice of rows - needed for the go-dsp
// FFT routines, which want [][]float64.
func (fg *FloatGrid)Rows() [][]float64 {
	rows := make([][]float64, fg.Dy())
	for y:=0; y<fg.Dy(); y++ {
		rows[y] = make([]float64, fg.Dx())
		copy(rows[y], fg.values[y*fg.stride : (y+1)*fg.stride])
	}
	return rows
}

func (fg *FloatGrid)Min() float64 { return floats.Min(fg.values) }
func (fg *FloatGrid)Max() float64 { return floats.Max(fg.values) }

// FloorAt clamps every value to be at least `min`. NaNs are clamped
// too, so radiance grids coming out of an inverse FFT are safe to
// feed into a logarithm afterwards.
func (fg *FloatGrid)FloorAt(min float64) {
	for i, v := range fg.values {
		if v < min || math.IsNaN(v) {
			fg.values[i] = min
		}
	}
}

func (fg *FloatGrid)CeilingAt(max float64) {
	for i, v := range fg.values {
		if v > max {
			fg.values[i] = max
		}
	}
}

// SubSample decimates by stride z, keeping every z-th sample in both
// axes. The result covers ceil(dim/z) samples per axis.
func (g1 *FloatGrid)SubSample(z int) FloatGrid {
	w := (g1.Dx() + z - 1) / z
	h := (g1.Dy() + z - 1) / z
	g2 := NewFloatGrid(w, h)

	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			g2.Set(x, y, g1.Get(x*z, y*z))
		}
	}
	return g2
}

// UpSampleBlock replicates each sample into a z x z block, then crops
// to exactly (w,h) - the inverse of SubSample, modulo the decimation.
func (g1 *FloatGrid)UpSampleBlock(z, w, h int) FloatGrid {
	g2 := NewFloatGrid(w, h)

	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			g2.Set(x, y, g1.Get(x/z, y/z))
		}
	}
	return g2
}

// ResizeNearest resamples to an arbitrary (w,h) without interpolation.
func (g1 *FloatGrid)ResizeNearest(w, h int) FloatGrid {
	g2 := NewFloatGrid(w, h)
	sw, sh := g1.Dx(), g1.Dy()

	for y:=0; y<h; y++ {
		sy := y * sh / h
		if sy >= sh { sy = sh-1 }
		for x:=0; x<w; x++ {
			sx := x * sw / w
			if sx >= sw { sx = sw-1 }
			g2.Set(x, y, g1.Get(sx, sy))
		}
	}
	return g2
}

// PadMirror doubles the grid in both axes, placing the grid centered
// and filling the four edge bands and four corners with reflections
// of the adjacent half. The result has no hard boundary, so it is
// safe to filter with a periodic (FFT) convolution.
func (g1 *FloatGrid)PadMirror() FloatGrid {
	w, h := g1.Dx(), g1.Dy()
	w2, h2 := w/2, h/2
	g2 := NewFloatGrid(2*w, 2*h)

	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			g2.Set(w2+x, h2+y, g1.Get(x, y)) // center
		}
		for x:=0; x<w2; x++ {
			g2.Set(x, h2+y, g1.Get(w2-1-x, y)) // left band
		}
		for x:=0; x<w-w2; x++ {
			g2.Set(w2+w+x, h2+y, g1.Get(w-1-x, y)) // right band
		}
	}
	for y:=0; y<h2; y++ {
		for x:=0; x<w; x++ {
			g2.Set(w2+x, y, g1.Get(x, h2-1-y)) // top band
		}
		for x:=0; x<w2; x++ {
			g2.Set(x, y, g1.Get(w2-1-x, h2-1-y)) // top-left corner
		}
		for x:=0; x<w-w2; x++ {
			g2.Set(w2+w+x, y, g1.Get(w-1-x, h2-1-y)) // top-right corner
		}
	}
	for y:=0; y<h-h2; y++ {
		for x:=0; x<w; x++ {
			g2.Set(w2+x, h2+h+y, g1.Get(x, h-1-y)) // bottom band
		}
		for x:=0; x<w2; x++ {
			g2.Set(x, h2+h+y, g1.Get(w2-1-x, h-1-y)) // bottom-left corner
		}
		for x:=0; x<w-w2; x++ {
			g2.Set(w2+w+x, h2+h+y, g1.Get(w-1-x, h-1-y)) // bottom-right corner
		}
	}

	return g2
}

// Crop returns the (w,h) sub grid whose top-left corner is (x0,y0).
func (g1 *FloatGrid)Crop(x0, y0, w, h int) FloatGrid {
	g2 := NewFloatGrid(w, h)
	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			g2.Set(x, y, g1.Get(x0+x, y0+y))
		}
	}
	return g2
}

// MinMaxAtPercentile sorts the nonzero values, and returns the values
// found at the two percentiles. Used to clip outliers before
// normalizing an output image.
func (fg *FloatGrid)MinMaxAtPercentile(minPrct, maxPrct float64) (float64, float64) {
	vals := []float64{}

	for i:=0 ; i<len(fg.values) ; i++ {
		if val := fg.values[i]; val != 0.0 {
			vals = append(vals, val)
		}
	}

	sort.Float64s(vals)

	iMin := int(minPrct * float64(len(vals)))
	iMax := int(maxPrct * float64(len(vals)))
	if iMin < 0          { iMin = 0 }
	if iMax >= len(vals) { iMax = len(vals)-1 }

	return vals[iMin], vals[iMax]
}

func (fg *FloatGrid)Stats() string {
	min, max := fg.Min(), fg.Max()
	return fmt.Sprintf("fg[%dx%d, vals{%f,%f}]", fg.Dx(), fg.Dy(), min, max)
}

// ToImg saves a simple grayscale, based on the range of values in the
// grid, gamma scaled to look normal for human vision
func (fg *FloatGrid)ToImg(title, filename string) {
	min, max := fg.Min(), fg.Max()

	img := image.NewRGBA64(image.Rectangle{Max:image.Point{fg.Dx(), fg.Dy()}})
	for x:=0; x<fg.Dx(); x++ {
		for y:=0; y<fg.Dy(); y++ {
			gray := (fg.Get(x,y) - min) / (max - min)
			img.Set(x, y, colorful.LinearRgb(gray, gray, gray).Clamped())
		}
	}

	dc := gg.NewContextForImage(img)
	dc.SetRGB(1,1,1)
	dc.DrawString(title, 50, 50)
	dc.SavePNG(filename)
}

package icam06

// Implement Kuang/Johnson/Fairchild's iCAM06 image appearance model
// as a tone mapping operator: an edge-aware base/detail split of the
// luminance, chromatic adaptation and tone compression of the base
// against a blurred adapted-white estimate, detail restoration, then
// colorfulness and surround adjustment in IPT space.

import(
	"image"
	"image/color"
	"log"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/hdrcolor"

	"github.com/hdrtone/icam06/pkg/bilateral"
	"github.com/hdrtone/icam06/pkg/imath"
)

type ICam06 struct {
	// Algo parameters
	Contrast       float64 // tone compression exponent p
	Gamma          float64 // Bartleson surround exponent; >1 for dim/dark surrounds
	Detail         float64 // exponent on the detail layer before recombination
	MaxLuminance   float64 // scene luminance assigned to the brightest pixel, cd/m2
	WhiteD         float64 // spatial extent of the chromatic adaptation white
	ToneD          float64 // spatial extent of the tone compression white
	MinClipping    float64 // percentile clipped to black in the output
	MaxClipping    float64 // percentile clipped to white in the output
	GammaExpand    bool    // whether to perform sRGB gamma expansion on final output

	DumpGrids      bool    // whether to write greyscale image files for the intermediate grids
	Verbosity      int

	Input          hdr.Image   // HDR image
	Output         image.Image // LDR image

	// intermediate data structures, calculated in this order
	xyz            imath.RGBGrid    // input tristimulus, scaled to scene luminance
	base           imath.FloatGrid  // smooth luminance base layer
	detail         imath.FloatGrid  // high frequency luminance detail
	baseImg        imath.RGBGrid    // input with luminance replaced by the base layer
	adapted        imath.RGBGrid    // after chromatic adaptation
	toneWhite      imath.RGBGrid    // adapted white for compression + IPT
	compressed     imath.RGBGrid    // after tone compression + detail restore
	final          imath.RGBGrid    // after IPT adjustment and inverse adaptation
}

func NewDefaultICam06(img hdr.Image) *ICam06 {
	return &ICam06{
		// Parameter defaults per the iCAM06 paper
		Contrast:     0.7,
		Gamma:        1.0,
		Detail:       1.0,
		MaxLuminance: 20000.0,
		WhiteD:       2.0,
		ToneD:        3.0,
		MinClipping:  0.01,
		MaxClipping:  0.99999,
		GammaExpand:  true, // image comes out too dark otherwise

		Input:        img,
	}
}

func (op *ICam06)Width()  int { return op.Input.Bounds().Dx() }
func (op *ICam06)Height() int { return op.Input.Bounds().Dy() }

// Implement mdouchement/hdr/tmo:ToneMappingOperator
func (op *ICam06)Perform() image.Image {
	op.CreateXYZGrid()
	op.DecomposeLuminance()
	op.AdaptChromatically()
	op.CompressTones()
	op.AdjustPerceptually()
	op.FillOutputImage()

	return op.Output
}

func (op *ICam06)MaybeDumpGrid(fg *imath.FloatGrid, comment, filename string) {
	if op.DumpGrids {
		fg.ToImg(comment, filename)
	}
}

// CreateXYZGrid pulls the input into an XYZ grid, rescaled so the
// brightest pixel sits at MaxLuminance - the appearance model wants
// absolute-ish photometric units, not normalized radiance.
func (op *ICam06)CreateXYZGrid() {
	bounds := op.Input.Bounds()
	xyz := imath.NewRGBGrid(bounds.Dx(), bounds.Dy())

	for x:=bounds.Min.X; x<bounds.Max.X; x++ {
		for y:=bounds.Min.Y; y<bounds.Max.Y; y++ {
			px := hdrcolor.XYZModel.Convert(op.Input.HDRAt(x, y))
			cx, cy, cz, _ := px.(hdrcolor.Color).HDRXYZA()
			xyz.Set(x-bounds.Min.X, y-bounds.Min.Y, imath.Vec3{cx, cy, cz})
		}
	}

	maxY := xyz.Channel(1).Max()
	if maxY > 0 {
		scale := op.MaxLuminance / maxY
		for y:=0; y<xyz.Dy(); y++ {
			for x:=0; x<xyz.Dx(); x++ {
				v := xyz.Get(x, y)
				xyz.Set(x, y, imath.Vec3{v[0] * scale, v[1] * scale, v[2] * scale})
			}
		}
	}

	if op.Verbosity > 0 {
		log.Printf("icam06: input luminance %s", xyz.Channel(1).Stats())
	}

	op.xyz = xyz
	op.MaybeDumpGrid(op.xyz.Channel(1), "001-luminance", "001-luminance.png")
}

// DecomposeLuminance splits the luminance into base and detail via
// the piecewise bilateral filter, then rebuilds a tristimulus image
// whose luminance is just the base layer; the detail goes back in
// after tone compression, so it survives the compression untouched.
func (op *ICam06)DecomposeLuminance() {
	op.base, op.detail = bilateral.Decompose(*op.xyz.Channel(1))

	lum := op.xyz.Channel(1).Copy()
	lum.FloorAt(1e-4)

	baseImg := op.xyz.NewFromThis()
	for y:=0; y<baseImg.Dy(); y++ {
		for x:=0; x<baseImg.Dx(); x++ {
			r := op.base.Get(x, y) / lum.Get(x, y)
			v := op.xyz.Get(x, y)
			baseImg.Set(x, y, imath.Vec3{v[0] * r, v[1] * r, v[2] * r})
		}
	}
	op.baseImg = baseImg

	if op.Verbosity > 0 {
		log.Printf("icam06: base %s, detail %s", op.base.Stats(), op.detail.Stats())
	}

	op.MaybeDumpGrid(&op.base, "002-base", "002-base.png")
	op.MaybeDumpGrid(&op.detail, "002-detail", "002-detail.png")
}

func (op *ICam06)AdaptChromatically() {
	white := AdaptedWhite(&op.xyz, op.WhiteD)

	adapted, err := CAT(&op.baseImg, &white)
	if err != nil {
		log.Fatalf("icam06: %v", err)
	}
	op.adapted = adapted

	op.MaybeDumpGrid(white.Channel(1), "003-white", "003-white.png")
}

func (op *ICam06)CompressTones() {
	op.toneWhite = AdaptedWhite(&op.xyz, op.ToneD)

	compressed, err := TC(&op.adapted, &op.toneWhite, op.Contrast)
	if err != nil {
		log.Fatalf("icam06: %v", err)
	}

	// restore the detail layer on all channels
	for y:=0; y<compressed.Dy(); y++ {
		for x:=0; x<compressed.Dx(); x++ {
			d := math.Pow(op.detail.Get(x, y), op.Detail)
			v := compressed.Get(x, y)
			compressed.Set(x, y, imath.Vec3{v[0] * d, v[1] * d, v[2] * d})
		}
	}
	op.compressed = compressed

	op.MaybeDumpGrid(op.compressed.Channel(1), "004-compressed", "004-compressed.png")
}

func (op *ICam06)AdjustPerceptually() {
	perceptual, err := IPT(&op.compressed, &op.toneWhite, op.Gamma)
	if err != nil {
		log.Fatalf("icam06: %v", err)
	}
	op.final = InvCAT(&perceptual)

	op.MaybeDumpGrid(op.final.Channel(1), "005-final", "005-final.png")
}

// FillOutputImage clips luminance outliers at the configured
// percentiles, normalizes, and renders to an in-memory sRGB image.
func (op *ICam06)FillOutputImage() {
	width  := op.final.Dx()
	height := op.final.Dy()

	lum := op.final.Channel(1)
	minLum, maxLum := lum.MinMaxAtPercentile(op.MinClipping, op.MaxClipping)

	out := image.NewRGBA64(image.Rectangle{Max:image.Point{width, height}})

	for y:=0; y<height; y++ {
		for x:=0; x<width; x++ {
			v := op.final.Get(x, y)

			yNorm := (v[1] - minLum) / (maxLum - minLum)
			if yNorm <= 0.0 { yNorm = 1e-4 }
			if yNorm > 1.0  { yNorm = 1.0 }

			r := yNorm / math.Max(v[1], 1e-4)
			c := imath.Vec3{v[0] * r, yNorm, v[2] * r}
			c.FloorAt(0.0) // IPT roundoff can leave X/Z slightly negative

			col := colorful.Xyz(c[0], c[1], c[2]).Clamped()
			if op.GammaExpand {
				out.Set(x, y, col)
			} else {
				lr, lg, lb := col.LinearRgb()
				out.Set(x, y, color.RGBA64{
					R: uint16(lr * float64(0xFFFF)),
					G: uint16(lg * float64(0xFFFF)),
					B: uint16(lb * float64(0xFFFF)),
					A: 0xFFFF,
				})
			}
		}
	}

	op.Output = out
}

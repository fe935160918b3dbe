package icam06

import(
	"fmt"
	"math"

	"github.com/hdrtone/icam06/pkg/imath"
)

// TC performs the tone compression stage: a signed power-law cone
// response in Hunt-Pointer-Estevez space, driven by the luminance
// dependent factor FL, plus a parallel rod response As for scotopic
// conditions. `p` is the compression exponent (larger = more
// contrast).
func TC(xyzAdapt, white *imath.RGBGrid, p float64) (imath.RGBGrid, error) {
	if err := xyzAdapt.SameShapeAs(white); err != nil {
		return imath.RGBGrid{}, fmt.Errorf("icam06: TC: %w", err)
	}

	rgb := xyzAdapt.ApplyMat3(hpeM)
	whiteG := white.Channel(1)

	// Sw = max(5*La) is a whole-image reduction; it has to be fully
	// computed before the per-pixel pass below reads it
	sw := 5.0 * 0.2 * whiteG.Max()

	out := xyzAdapt.NewFromThis()
	for y:=0; y<out.Dy(); y++ {
		for x:=0; x<out.Dx(); x++ {
			la := 0.2 * whiteG.Get(x, y)
			k := 1.0 / (5.0*la + 1.0)
			k4 := k * k * k * k
			fl := 0.2*k4*(5.0*la) + 0.1*(1.0-k4)*(1.0-k4)*math.Cbrt(5.0*la)

			// rod response
			las := 2.26 * la
			j := 0.00001 / (5.0*las/2.26 + 0.00001)
			j2 := j * j
			fls := 3800.0*j2*(5.0*las/2.26) +
				0.2*math.Pow(1.0-j2, 4)*math.Pow(5.0*las/2.26, 1.0/6.0)

			s := math.Abs(xyzAdapt.Channel(1).Get(x, y))
			bs := 0.5/(1.0+0.3*math.Pow((5.0*las/2.26)*(s/sw), 3)) +
				0.5/(1.0+5.0*(5.0*las/2.26))
			rodT := math.Pow(fls*(s/sw), p)
			as := 3.05*bs*(400.0*rodT/(27.13+rodT)) + 0.03

			v := rgb.Get(x, y)
			var c imath.Vec3
			for i:=0; i<3; i++ {
				t := math.Pow(fl*math.Abs(v[i])/whiteG.Get(x, y), p)
				c[i] = math.Copysign(400.0*t/(27.13+t), v[i]) + 0.1 + as
			}
			out.Set(x, y, c)
		}
	}

	return out.ApplyMat3(hpeMInv), nil
}

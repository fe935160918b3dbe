package icam06

import(
	"fmt"
	"math"

	"github.com/hdrtone/icam06/pkg/imath"
)

const iptExp = 0.43 // IPT nonlinearity exponent

// IPT adjusts the image in the IPT opponent space: the chroma
// channels get a colorfulness boost modelling the Hunt effect, and
// the intensity channel gets a Bartleson surround correction with
// exponent `gamma` (>1 darkens mid tones, for dim or dark viewing
// surrounds). `base` supplies the adapting luminance via its Y
// channel. The image comes back out in XYZ.
func IPT(xyz, base *imath.RGBGrid, gamma float64) (imath.RGBGrid, error) {
	if err := xyz.SameShapeAs(base); err != nil {
		return imath.RGBGrid{}, fmt.Errorf("icam06: IPT: %w", err)
	}

	lms := xyz.ApplyMat3(lmsM)
	for y:=0; y<lms.Dy(); y++ {
		for x:=0; x<lms.Dx(); x++ {
			v := lms.Get(x, y)
			lms.Set(x, y, imath.Vec3{signedPow(v[0], iptExp), signedPow(v[1], iptExp), signedPow(v[2], iptExp)})
		}
	}

	ipt := lms.ApplyMat3(iptM)

	// Hunt effect: colorfulness rises with adapting luminance
	for y:=0; y<ipt.Dy(); y++ {
		for x:=0; x<ipt.Dx(); x++ {
			v := ipt.Get(x, y)
			c := math.Sqrt(v[1]*v[1] + v[2]*v[2])

			la := 0.2 * base.Channel(1).Get(x, y)
			k := 1.0 / (5.0*la + 1.0)
			k4 := k * k * k * k
			fl := 0.2*k4*(5.0*la) + 0.1*(1.0-k4)*(1.0-k4)*math.Cbrt(5.0*la)

			gain := math.Pow(fl+1.0, 0.15) *
				((1.29*c*c - 0.27*c + 0.42) / (c*c - 0.31*c + 0.42))
			ipt.Set(x, y, imath.Vec3{v[0], v[1] * gain, v[2] * gain})
		}
	}

	// Bartleson surround: the global intensity max is a whole-image
	// reduction, completed before the per-pixel rescale starts
	maxI := ipt.Channel(0).Max()
	for y:=0; y<ipt.Dy(); y++ {
		for x:=0; x<ipt.Dx(); x++ {
			i := ipt.Channel(0).Get(x, y)
			ipt.Channel(0).Set(x, y, math.Pow(i/maxI, gamma)*maxI)
		}
	}

	lms = ipt.ApplyMat3(iptMInv)
	for y:=0; y<lms.Dy(); y++ {
		for x:=0; x<lms.Dx(); x++ {
			v := lms.Get(x, y)
			lms.Set(x, y, imath.Vec3{signedPow(v[0], 1.0/iptExp), signedPow(v[1], 1.0/iptExp), signedPow(v[2], 1.0/iptExp)})
		}
	}

	return lms.ApplyMat3(lmsMInv), nil
}

func signedPow(v, e float64) float64 {
	return math.Copysign(math.Pow(math.Abs(v), e), v)
}

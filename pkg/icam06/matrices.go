package icam06

import "github.com/hdrtone/icam06/pkg/imath"

// The fixed color matrices used by the appearance stages, column
// vector convention (out = M . v). All from the color science
// literature - see Kuang, Johnson & Fairchild, "iCAM06: A refined
// image appearance model for HDR image rendering", plus:
// - CAT02:  https://en.wikipedia.org/wiki/CIECAM02#CAT02
// - HPE:    https://en.wikipedia.org/wiki/LMS_color_space
// - IPT:    Ebner & Fairchild '98, "Development and testing of a color space (IPT)"
var(
	// XYZ -> CAT02 sharpened cone responses, for chromatic adaptation
	catM = imath.Mat3{
		 0.7328,  0.4296, -0.1624,
		-0.7036,  1.6974,  0.0061,
		 0.0030,  0.0136,  0.9834,
	}
	catMInv = catM.Inverse()

	// XYZ -> Hunt-Pointer-Estevez cone space, for tone compression
	hpeM = imath.Mat3{
		 0.38971,  0.68898, -0.07868,
		-0.22981,  1.18340,  0.04641,
		 0.0,      0.0,      1.0,
	}
	hpeMInv = hpeM.Inverse()

	// XYZ -> LMS, first leg of the IPT transform
	lmsM = imath.Mat3{
		 0.4002,  0.7077, -0.0807,
		-0.2280,  1.1500,  0.0612,
		 0.0,     0.0,     0.9184,
	}
	lmsMInv = lmsM.Inverse()

	// nonlinear LMS -> IPT opponent space
	iptM = imath.Mat3{
		 0.4000,  0.4000,  0.2000,
		 4.4550, -4.8510,  0.3960,
		 0.8056,  0.3572, -1.1628,
	}
	iptMInv = iptM.Inverse()

	// The inverse-adaptation stage matrix. Forward-then-inverse
	// composes to identity under exact arithmetic; the stage is kept
	// to decouple the display color space from the calculation space.
	invcatM = imath.Mat3{
		 0.8562, -0.8360,  0.0357,
		 0.3372,  1.8327, -0.0469,
		-0.1934,  0.0033,  1.0112,
	}
	invcatMInv = invcatM.Inverse()

	// D65 reference white tristimulus
	whiteD65 = imath.Vec3{95.05, 100.0, 108.88}
)

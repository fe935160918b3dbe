package imath

import(
	"errors"
	"fmt"
)

// ErrShapeMismatch is returned when two grids that must share a shape
// don't. Catching it early beats watching NaNs propagate through a
// color pipeline.
var ErrShapeMismatch = errors.New("imath: grid shape mismatch")

// An RGBGrid is a three channel grid of floats - a tristimulus (XYZ
// or linear RGB) image. Channels are stored as independent
// FloatGrids so the single channel operations apply directly.
type RGBGrid struct {
	ch [3]FloatGrid
}

func NewRGBGrid(w, h int) RGBGrid {
	return RGBGrid{ch: [3]FloatGrid{NewFloatGrid(w, h), NewFloatGrid(w, h), NewFloatGrid(w, h)}}
}

func (rg *RGBGrid)NewFromThis() RGBGrid      { return NewRGBGrid(rg.Dx(), rg.Dy()) }
func (rg *RGBGrid)Dx() int                   { return rg.ch[0].Dx() }
func (rg *RGBGrid)Dy() int                   { return rg.ch[0].Dy() }
func (rg *RGBGrid)Channel(i int) *FloatGrid  { return &rg.ch[i] }

func (rg *RGBGrid)Get(x, y int) Vec3 {
	return Vec3{rg.ch[0].Get(x, y), rg.ch[1].Get(x, y), rg.ch[2].Get(x, y)}
}

func (rg *RGBGrid)Set(x, y int, v Vec3) {
	rg.ch[0].Set(x, y, v[0])
	rg.ch[1].Set(x, y, v[1])
	rg.ch[2].Set(x, y, v[2])
}

// SameShapeAs signals a shape-mismatch error naming the two shapes,
// so a stage fed incompatible grids fails loudly.
func (rg *RGBGrid)SameShapeAs(o *RGBGrid) error {
	if rg.Dx() != o.Dx() || rg.Dy() != o.Dy() {
		return fmt.Errorf("%dx%d vs %dx%d: %w", rg.Dx(), rg.Dy(), o.Dx(), o.Dy(), ErrShapeMismatch)
	}
	return nil
}

// ApplyMat3 maps every pixel 3-vector through the matrix. This is
// the one primitive every color appearance stage is built out of.
func (rg *RGBGrid)ApplyMat3(m Mat3) RGBGrid {
	out := rg.NewFromThis()
	for y:=0; y<rg.Dy(); y++ {
		for x:=0; x<rg.Dx(); x++ {
			out.Set(x, y, m.Apply(rg.Get(x, y)))
		}
	}
	return out
}

// Broadcast replicates a single channel grid across the channel axis.
func Broadcast(fg *FloatGrid) RGBGrid {
	rg := RGBGrid{}
	rg.ch[0] = *fg.Copy()
	rg.ch[1] = *fg.Copy()
	rg.ch[2] = *fg.Copy()
	return rg
}

// RGBFromChannels assembles a grid from three equally shaped channels.
func RGBFromChannels(c0, c1, c2 FloatGrid) RGBGrid {
	return RGBGrid{ch: [3]FloatGrid{c0, c1, c2}}
}

func (rg *RGBGrid)SubSample(z int) RGBGrid {
	return RGBGrid{ch: [3]FloatGrid{rg.ch[0].SubSample(z), rg.ch[1].SubSample(z), rg.ch[2].SubSample(z)}}
}

func (rg *RGBGrid)ResizeNearest(w, h int) RGBGrid {
	return RGBGrid{ch: [3]FloatGrid{rg.ch[0].ResizeNearest(w, h), rg.ch[1].ResizeNearest(w, h), rg.ch[2].ResizeNearest(w, h)}}
}

func (rg *RGBGrid)FloorAt(min float64) {
	rg.ch[0].FloorAt(min)
	rg.ch[1].FloorAt(min)
	rg.ch[2].FloorAt(min)
}

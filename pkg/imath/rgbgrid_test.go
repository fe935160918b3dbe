package imath

import(
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRGBGridApplyMat3AndBroadcast(t *testing.T) {
	fg := rampGrid(4, 3)
	rg := Broadcast(&fg)

	assert.Equal(t, Vec3{5, 5, 5}, rg.Get(1, 1))

	doubled := rg.ApplyMat3(Mat3{2, 0, 0, 0, 2, 0, 0, 0, 2})
	assert.Equal(t, Vec3{10, 10, 10}, doubled.Get(1, 1))
}

func TestSameShapeAs(t *testing.T) {
	a := NewRGBGrid(4, 3)
	b := NewRGBGrid(4, 3)
	c := NewRGBGrid(5, 3)

	assert.NoError(t, a.SameShapeAs(&b))

	err := a.SameShapeAs(&c)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

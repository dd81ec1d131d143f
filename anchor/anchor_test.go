package anchor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/polarchain/physics"
	"github.com/lixenwraith/polarchain/vmath"
)

func TestBuild_StaticDetachedAnchors(t *testing.T) {
	w := physics.NewWorld(physics.DefaultConfig())
	s := Build(w, "row", []vmath.Point{vmath.Pt(0, 0), vmath.Pt(10, 0)})

	require.Equal(t, 2, s.Len())
	for _, a := range s.Anchors {
		assert.True(t, a.Static)
		assert.False(t, a.InWorld())
		assert.Equal(t, uint(0), a.Filter.Mask)
		assert.Equal(t, TagAnchor, a.Tag)
	}

	s.AddTo()
	assert.Len(t, w.Bodies(), 2)
	assert.True(t, s.At(1).InWorld())
}

func TestApply_ScaleThenRotateThenTranslate(t *testing.T) {
	w := physics.NewWorld(physics.DefaultConfig())
	s := Build(w, "pt", []vmath.Point{vmath.Pt(1, 0)})

	s.Apply(Transform{
		ScaleX:    3,
		ScaleY:    3,
		Rotate:    math.Pi / 2,
		Translate: vmath.Pt(10, 0),
	})

	// (1,0) → scale (3,0) → rotate (0,3) → translate (10,3)
	got := s.At(0).Position()
	assert.True(t, vmath.Near(got, vmath.Pt(10, 3), 1e-9), "got %v", got)
}

func TestApply_ZeroScaleIsIdentity(t *testing.T) {
	w := physics.NewWorld(physics.DefaultConfig())
	s := Build(w, "pt", []vmath.Point{vmath.Pt(2, 5)})
	s.Apply(Transform{})
	assert.Equal(t, vmath.Pt(2, 5), s.At(0).Position())
}

func TestApply_NonUniformAboutOrigin(t *testing.T) {
	w := physics.NewWorld(physics.DefaultConfig())
	s := Build(w, "pt", []vmath.Point{vmath.Pt(20, 20)})
	s.Apply(Transform{ScaleX: -1, ScaleY: 1, Origin: vmath.Pt(10, 0)})
	assert.Equal(t, vmath.Pt(0, 20), s.At(0).Position())
}

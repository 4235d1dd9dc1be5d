//go:build collidedebug

package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func expectPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", name)
		}
	}()
	f()
}

func TestNewCollider_RejectsNonRigidTransforms(t *testing.T) {
	tests := []struct {
		name   string
		matrix mgl32.Mat2
	}{
		{"uniform scale", mgl32.Mat2{2, 0, 0, 2}},
		{"stretch", mgl32.Mat2{1, 0, 0, 3}},
		{"shear", mgl32.Mat2{1, 0, 0.5, 1}},
		{"mirror", mgl32.Mat2{-1, 0, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tf := Affine2{Matrix: tt.matrix}
			expectPanic(t, "NewCollider", func() {
				NewCollider(NewRect(8, 8), tf, GroupFromID(0))
			})
			c := NewCollider(NewCircle(4), IdentityTransform(), GroupFromID(0))
			expectPanic(t, "WithTransform", func() {
				c.WithTransform(tf)
			})
		})
	}
}

func TestNewCollider_AcceptsRigidTransforms(t *testing.T) {
	for _, tf := range []Affine2{
		IdentityTransform(),
		FromTranslation(Vec2{10, -4}),
		FromAngleTranslation(2.5, Vec2{-3, 7}),
	} {
		c := NewCollider(NewRect(8, 8), tf, GroupFromID(1))
		if c.Transform != tf {
			t.Errorf("collider transform = %+v, want %+v", c.Transform, tf)
		}
	}
}

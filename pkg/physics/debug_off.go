//go:build !collidedebug

package physics

const debugAsserts = false

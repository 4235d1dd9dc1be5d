//go:build collidedebug

package physics

// debugAsserts enables precondition panics in shape math.
const debugAsserts = true

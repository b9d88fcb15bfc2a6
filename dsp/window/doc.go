// Package window provides the gain curves used to crossfade delay taps and
// to taper analysis frames.
//
// Every [Shape] is evaluated at a normalized position x in [0,1], is zero at
// both ends and reaches 1 at x = 0.5. Two curves evaluated half a cycle
// apart (x and x+0.5 mod 1) sum to a constant:
//
//   - [ShapeHann] and [ShapeTriangle]: amplitude sum is 1 (constant gain).
//   - [ShapeSine]: power sum is 1 (constant power).
package window

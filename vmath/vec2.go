package vmath

import "math"

// Vec2 is a float64 2D vector in world pixels
// Used for positions (px) and velocities (px/tick)
type Vec2 struct {
	X, Y float64
}

func V2Add(a, b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

func V2Sub(a, b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

func V2Scale(v Vec2, s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

func V2MagSq(v Vec2) float64 {
	return v.X*v.X + v.Y*v.Y
}

func V2Mag(v Vec2) float64 {
	return math.Sqrt(V2MagSq(v))
}

// V2DistSq returns squared Euclidean distance, avoids sqrt in overlap tests
func V2DistSq(a, b Vec2) float64 {
	return V2MagSq(V2Sub(a, b))
}

func V2Dist(a, b Vec2) float64 {
	return math.Sqrt(V2DistSq(a, b))
}

// V2Normalize returns the unit vector of v, zero vector stays zero
func V2Normalize(v Vec2) Vec2 {
	mag := V2Mag(v)
	if mag == 0 {
		return Vec2{}
	}
	inv := 1.0 / mag
	return Vec2{v.X * inv, v.Y * inv}
}

// V2FromAngle returns a vector of given length pointing along angle (radians, screen space: +Y down)
func V2FromAngle(angle, length float64) Vec2 {
	return Vec2{math.Cos(angle) * length, math.Sin(angle) * length}
}

// V2Angle returns heading of v in radians
func V2Angle(v Vec2) float64 {
	return math.Atan2(v.Y, v.X)
}

// V2Toward returns velocity of given speed from 'from' toward 'to'
// Coincident points yield zero velocity
func V2Toward(from, to Vec2, speed float64) Vec2 {
	return V2Scale(V2Normalize(V2Sub(to, from)), speed)
}

// CirclesOverlap reports whether two circles touch or intersect
func CirclesOverlap(a Vec2, ra float64, b Vec2, rb float64) bool {
	r := ra + rb
	return V2DistSq(a, b) <= r*r
}

// V2IsFinite reports whether both components are finite numbers
func V2IsFinite(v Vec2) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

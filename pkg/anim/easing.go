package anim

// Easing maps linear progress in [0, 1] onto eased progress in [0, 1].
type Easing func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

// Decelerate starts fast and slows down towards the end: 1 - (1-t)².
func Decelerate(t float64) float64 {
	u := 1 - t
	return 1 - u*u
}

// Accelerate starts slow and speeds up: t².
func Accelerate(t float64) float64 { return t * t }

func clamp01(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}

package seed

import (
	"math"
	"math/rand/v2"
)

type Point struct {
	X, Y, Z float64
}

// SphereLayout spreads n points over a sphere of radius ~8 along a golden
// spiral. rng adds up to ±1 of radius jitter; nil means no jitter.
func SphereLayout(n int, rng *rand.Rand) []Point {
	goldenAngle := math.Pi * (3 - math.Sqrt(5))

	points := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		y := 0.0
		if n > 1 {
			y = 1 - float64(i)/float64(n-1)*2
		}
		radius := math.Sqrt(1 - y*y)
		theta := goldenAngle * float64(i)

		scale := 8.0 + jitter(rng, 1)
		points = append(points, Point{
			X: math.Cos(theta) * radius * scale,
			Y: y * scale,
			Z: math.Sin(theta) * radius * scale,
		})
	}
	return points
}

// HelixLayout winds n points around the Y axis in four turns, spread
// vertically over [-5, 5).
func HelixLayout(n int, rng *rand.Rand) []Point {
	points := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n) * 4 * math.Pi
		radius := 5.0 + jitter(rng, 0.5)
		points = append(points, Point{
			X: radius * math.Cos(t),
			Y: (float64(i)/float64(n) - 0.5) * 10,
			Z: radius * math.Sin(t),
		})
	}
	return points
}

// Bounds returns the min and max corners of points.
func Bounds(points []Point) (Point, Point) {
	if len(points) == 0 {
		return Point{}, Point{}
	}
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo = Point{math.Min(lo.X, p.X), math.Min(lo.Y, p.Y), math.Min(lo.Z, p.Z)}
		hi = Point{math.Max(hi.X, p.X), math.Max(hi.Y, p.Y), math.Max(hi.Z, p.Z)}
	}
	return lo, hi
}

func jitter(rng *rand.Rand, max float64) float64 {
	if rng == nil {
		return 0
	}
	return (rng.Float64()*2 - 1) * max
}

package eval

// Example is a named, ready-to-compile source preset shown to the user.
type Example struct {
	Name        string
	Description string
	Code        string
}

// MeshKind selects which sampling mode a math preset targets.
type MeshKind int

const (
	Surface MeshKind = iota
	ParametricCurve
	ParametricSurface
)

// MeshExample extends Example with the sampling configuration the preset
// was designed for.
type MeshExample struct {
	Example
	Kind               MeshKind
	XRange, YRange     [2]float64
	TRange             [2]float64
	URange, VRange     [2]float64
	USamples, VSamples int
}

// RngExamples are recurrence presets for the streaming point generator.
// They range from good generators down to famously bad ones whose structure
// shows up immediately in the 3D view.
var RngExamples = []Example{
	{
		Name:        "Xorshift32",
		Description: "Marsaglia's classic, fast and high-quality.",
		Code: `func rng(state int64) int64 {
	x := state ^ (state << 13)
	y := x ^ (x >> 17)
	z := y ^ (y << 5)
	return z & 0x7FFFFFFF
}`,
	},
	{
		Name:        "LCG MINSTD",
		Description: "Park-Miller standard, acceptable for simple uses.",
		Code: `func rng(state int64) int64 {
	next := (state * 48271) % 2147483647
	if next == 0 {
		return 1
	}
	return next
}`,
	},
	{
		Name:        "LCG Numerical Recipes",
		Description: "From Numerical Recipes, common but flawed.",
		Code: `func rng(state int64) int64 {
	return (state*1103515245 + 12345) & 0x7FFFFFFF
}`,
	},
	{
		Name:        "RANDU (Bad)",
		Description: "IBM 1968. Famous for visible 3D hyperplanes.",
		Code: `func rng(state int64) int64 {
	next := (state * 65539) % 2147483648
	if next == 0 {
		return 1
	}
	return next
}`,
	},
	{
		Name:        "Counter (Worst)",
		Description: "Just increments. Perfect diagonal line in 3D.",
		Code: `func rng(state int64) int64 {
	return state + 1
}`,
	},
	{
		Name:        "Multiply-3 (Awful)",
		Description: "Tiny multiplier, visible patterns.",
		Code: `func rng(state int64) int64 {
	return (state * 3) % 2147483648
}`,
	},
}

// MeshExamples are sampling presets for the mesh worker.
var MeshExamples = []MeshExample{
	{
		Example: Example{
			Name:        "Sine Wave",
			Description: "Basic sine wave",
			Code: `import "math"

func f(x, y float64) float64 {
	return math.Sin(x) + math.Sin(y)
}`,
		},
		Kind:   Surface,
		XRange: [2]float64{-6.28, 6.28},
		YRange: [2]float64{-6.28, 6.28},
	},
	{
		Example: Example{
			Name:        "Ripple",
			Description: "Radial wave pattern",
			Code: `import "math"

func f(x, y float64) float64 {
	r := math.Sqrt(x*x + y*y)
	return math.Sin(r*2.0) / (r + 1.0)
}`,
		},
		Kind:   Surface,
		XRange: [2]float64{-5, 5},
		YRange: [2]float64{-5, 5},
	},
	{
		Example: Example{
			Name:        "Saddle",
			Description: "x² - y²",
			Code: `func f(x, y float64) float64 {
	return x*x - y*y
}`,
		},
		Kind:   Surface,
		XRange: [2]float64{-3, 3},
		YRange: [2]float64{-3, 3},
	},
	{
		Example: Example{
			Name:        "Peaks",
			Description: "Multiple gaussian bumps",
			Code: `import "math"

func f(x, y float64) float64 {
	t1 := 3.0 * (1.0 - x) * (1.0 - x) * math.Exp(-x*x-(y+1.0)*(y+1.0))
	t2 := -10.0 * (x/5.0 - x*x*x - y*y*y*y*y) * math.Exp(-x*x-y*y)
	t3 := -1.0 / 3.0 * math.Exp(-(x+1.0)*(x+1.0)-y*y)
	return t1 + t2 + t3
}`,
		},
		Kind:   Surface,
		XRange: [2]float64{-3, 3},
		YRange: [2]float64{-3, 3},
	},
	{
		Example: Example{
			Name:        "Helix",
			Description: "Spiral in 3D",
			Code: `import "math"

func fx(t float64) float64 { return math.Cos(t * 4.0) }
func fy(t float64) float64 { return t }
func fz(t float64) float64 { return math.Sin(t * 4.0) }`,
		},
		Kind:   ParametricCurve,
		TRange: [2]float64{0, 6.28},
	},
	{
		Example: Example{
			Name:        "Trefoil Knot",
			Description: "Classic knot",
			Code: `import "math"

func fx(t float64) float64 { return math.Sin(t) + 2.0*math.Sin(2.0*t) }
func fy(t float64) float64 { return math.Cos(t) - 2.0*math.Cos(2.0*t) }
func fz(t float64) float64 { return -math.Sin(3.0 * t) }`,
		},
		Kind:   ParametricCurve,
		TRange: [2]float64{0, 6.28},
	},
	{
		Example: Example{
			Name:        "Lissajous",
			Description: "3D lissajous figure",
			Code: `import "math"

func fx(t float64) float64 { return math.Sin(3.0 * t) }
func fy(t float64) float64 { return math.Sin(4.0 * t) }
func fz(t float64) float64 { return math.Sin(5.0 * t) }`,
		},
		Kind:   ParametricCurve,
		TRange: [2]float64{0, 6.28},
	},
	{
		Example: Example{
			Name:        "Torus Knot",
			Description: "Wraps around a torus",
			Code: `import "math"

func fx(t float64) float64 {
	r := 2.0 + math.Cos(3.0*t)
	return r * math.Cos(2.0*t)
}
func fy(t float64) float64 { return math.Sin(3.0 * t) }
func fz(t float64) float64 {
	r := 2.0 + math.Cos(3.0*t)
	return r * math.Sin(2.0*t)
}`,
		},
		Kind:   ParametricCurve,
		TRange: [2]float64{0, 6.28},
	},
	{
		Example: Example{
			Name:        "Sphere",
			Description: "Unit sphere",
			Code: `import "math"

func fx(u, v float64) float64 { return math.Sin(u) * math.Cos(v) }
func fy(u, v float64) float64 { return math.Cos(u) }
func fz(u, v float64) float64 { return math.Sin(u) * math.Sin(v) }`,
		},
		Kind:     ParametricSurface,
		URange:   [2]float64{0, 3.14159},
		VRange:   [2]float64{0, 6.28318},
		USamples: 40,
		VSamples: 80,
	},
	{
		Example: Example{
			Name:        "Torus",
			Description: "Donut",
			Code: `import "math"

func fx(u, v float64) float64 { return (2.0 + math.Cos(v)) * math.Cos(u) }
func fy(u, v float64) float64 { return math.Sin(v) }
func fz(u, v float64) float64 { return (2.0 + math.Cos(v)) * math.Sin(u) }`,
		},
		Kind:     ParametricSurface,
		URange:   [2]float64{0, 6.28318},
		VRange:   [2]float64{0, 6.28318},
		USamples: 60,
		VSamples: 40,
	},
	{
		Example: Example{
			Name:        "Möbius Strip",
			Description: "One-sided surface",
			Code: `import "math"

func fx(u, v float64) float64 { return (1.0 + v*math.Cos(u/2.0)) * math.Cos(u) }
func fy(u, v float64) float64 { return v * math.Sin(u/2.0) }
func fz(u, v float64) float64 { return (1.0 + v*math.Cos(u/2.0)) * math.Sin(u) }`,
		},
		Kind:     ParametricSurface,
		URange:   [2]float64{0, 6.28318},
		VRange:   [2]float64{-0.5, 0.5},
		USamples: 80,
		VSamples: 20,
	},
}

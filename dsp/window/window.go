package window

import (
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
	TypeBlackmanHarris4Term
	TypeFlatTop
	TypeKaiser

	numTypes
)

// Metadata holds spectral properties of a window type. Kaiser properties
// depend on beta and are left zero.
type Metadata struct {
	Name                string
	ENBW                float64
	HighestSidelobe     float64
	CoherentGain        float64
	CoherentGainSquared float64
}

// def describes one window. Windows without cosine terms are evaluated
// by a dedicated function.
type def struct {
	id      string
	aliases []string
	cosine  []float64
	meta    Metadata
}

// defs is indexed by Type. Cosine windows are w(x) = sum a_k cos(2*pi*k*x)
// for x in [0, 1].
var defs = [numTypes]def{
	TypeRectangular: {
		id: "rectangular", aliases: []string{"rect", "none"},
		meta: Metadata{Name: "Rectangular", ENBW: 1, HighestSidelobe: -13.3, CoherentGain: 1, CoherentGainSquared: 1},
	},
	TypeHann: {
		id: "hann", aliases: []string{"hanning"},
		cosine: []float64{0.5, -0.5},
		meta:   Metadata{Name: "Hann", ENBW: 1.5, HighestSidelobe: -31.5, CoherentGain: 0.5, CoherentGainSquared: 0.25},
	},
	TypeHamming: {
		id:     "hamming",
		cosine: []float64{0.54, -0.46},
		meta:   Metadata{Name: "Hamming", ENBW: 1.36, HighestSidelobe: -42.7, CoherentGain: 0.54, CoherentGainSquared: 0.2916},
	},
	TypeBlackman: {
		id:     "blackman",
		cosine: []float64{0.42, -0.5, 0.08},
		meta:   Metadata{Name: "Blackman", ENBW: 1.73, HighestSidelobe: -58.1, CoherentGain: 0.42, CoherentGainSquared: 0.1764},
	},
	TypeBlackmanHarris4Term: {
		id: "blackman-harris", aliases: []string{"blackmanharris"},
		cosine: []float64{0.35875, -0.48829, 0.14128, -0.01168},
		meta:   Metadata{Name: "Blackman-Harris", ENBW: 2.0, HighestSidelobe: -92, CoherentGain: 0.35875, CoherentGainSquared: 0.35875 * 0.35875},
	},
	TypeFlatTop: {
		id: "flattop", aliases: []string{"flat-top"},
		cosine: []float64{0.21557895, -0.41663158, 0.277263158, -0.083578947, 0.006947368},
		meta:   Metadata{Name: "Flat Top", ENBW: 3.77, HighestSidelobe: -93, CoherentGain: 0.21557895, CoherentGainSquared: 0.21557895 * 0.21557895},
	},
	TypeKaiser: {
		id:   "kaiser",
		meta: Metadata{Name: "Kaiser"},
	},
}

func (t Type) valid() bool { return t >= 0 && t < numTypes }

// Types returns every supported window type in declaration order.
func Types() []Type {
	out := make([]Type, numTypes)
	for i := range out {
		out[i] = Type(i)
	}

	return out
}

// String returns the lower-case identifier accepted by ParseType.
func (t Type) String() string {
	if !t.valid() {
		return "unknown"
	}

	return defs[t].id
}

// ParseType maps a window name or alias to its Type. Matching ignores case
// and surrounding space.
func ParseType(name string) (Type, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for t, s := range defs {
		if key == s.id {
			return Type(t), nil
		}
		for _, a := range s.aliases {
			if key == a {
				return Type(t), nil
			}
		}
	}

	return 0, unknownTypeError(name)
}

// Info returns static metadata for a window type.
func Info(t Type) Metadata {
	if !t.valid() {
		return Metadata{}
	}

	return defs[t].meta
}

// Option configures window generation.
type Option func(*config)

type config struct {
	beta     float64
	periodic bool
}

// WithBeta sets the Kaiser shape parameter. Negative values are ignored;
// the default is 1.
func WithBeta(beta float64) Option {
	return func(c *config) {
		if beta >= 0 {
			c.beta = beta
		}
	}
}

// WithPeriodic generates the periodic form used for FFT framing, whose
// period equals the length, instead of the symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns length coefficients, or nil for a non-positive length.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	out := make([]float64, length)
	GenerateInto(t, out, opts...)

	return out
}

// GenerateInto fills dst with coefficients. Unknown types fill ones.
func GenerateInto(t Type, dst []float64, opts ...Option) {
	cfg := config{beta: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	span := float64(len(dst) - 1)
	if cfg.periodic {
		span = float64(len(dst))
	}

	for i := range dst {
		var x float64
		if span > 0 {
			x = float64(i) / span
		}
		dst[i] = eval(t, x, cfg.beta)
	}
}

func eval(t Type, x, beta float64) float64 {
	switch {
	case t == TypeKaiser:
		return kaiser(x, beta)
	case !t.valid() || defs[t].cosine == nil:
		return 1
	}

	var sum float64
	for k, a := range defs[t].cosine {
		sum += a * math.Cos(2*math.Pi*float64(k)*x)
	}

	return sum
}

// EquivalentNoiseBandwidth returns the ENBW of coeffs in bins:
// N * sum(w^2) / sum(w)^2.
func EquivalentNoiseBandwidth(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, errEmptyCoeffs
	}

	sum := vecmath.Sum(coeffs)
	if sum == 0 {
		return 0, errZeroCoherentGain
	}

	return float64(len(coeffs)) * vecmath.DotProduct(coeffs, coeffs) / (sum * sum), nil
}

func kaiser(x, beta float64) float64 {
	if beta <= 0 {
		return 1
	}

	r := 2*x - 1

	return besselI0(beta*math.Sqrt(math.Max(0, 1-r*r))) / besselI0(beta)
}

// besselI0 approximates the modified Bessel function of the first kind,
// order zero (Abramowitz and Stegun 9.8.1 and 9.8.2).
func besselI0(x float64) float64 {
	ax := math.Abs(x)
	if ax < 3.75 {
		y := (x / 3.75) * (x / 3.75)

		return 1 + y*(3.5156229+y*(3.0899424+y*(1.2067492+y*(0.2659732+y*(0.0360768+y*0.0045813)))))
	}

	y := 3.75 / ax
	poly := 0.39894228 + y*(0.01328592+y*(0.00225319+y*(-0.00157565+y*(0.00916281+
		y*(-0.02057706+y*(0.02635537+y*(-0.01647633+y*0.00392377)))))))

	return math.Exp(ax) / math.Sqrt(ax) * poly
}

package transition

import (
	"math"
	"regexp"
	"strconv"
)

// Ease maps normalized time in [0,1] to progress in [0,1]
type Ease func(t float64) float64

// EaseLinear is the identity easing
func EaseLinear(t float64) float64 { return t }

// EaseCubicInOut is symmetric cubic easing, the default for transitions
func EaseCubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}

var numberRe = regexp.MustCompile(`[-+]?(?:\d+\.?\d*|\.?\d+)(?:[eE][-+]?\d+)?`)

type segment struct {
	lit      string
	from, to float64
	numeric  bool
}

// InterpolateString returns an interpolator between two attribute strings.
// Numbers embedded in b are paired in order with the numbers in a and
// interpolated; everything else is taken from b. With t >= 1 the result is
// exactly b.
func InterpolateString(a, b string) func(t float64) string {
	am := numberRe.FindAllStringIndex(a, -1)
	bm := numberRe.FindAllStringIndex(b, -1)

	var segs []segment
	last := 0
	for i, loc := range bm {
		if loc[0] > last {
			segs = append(segs, segment{lit: b[last:loc[0]]})
		}
		bs := b[loc[0]:loc[1]]
		last = loc[1]

		if i >= len(am) {
			segs = append(segs, segment{lit: bs})
			continue
		}
		as := a[am[i][0]:am[i][1]]
		av, errA := strconv.ParseFloat(as, 64)
		bv, errB := strconv.ParseFloat(bs, 64)
		if as == bs || errA != nil || errB != nil {
			segs = append(segs, segment{lit: bs})
			continue
		}
		segs = append(segs, segment{from: av, to: bv, numeric: true})
	}
	if last < len(b) {
		segs = append(segs, segment{lit: b[last:]})
	}

	return func(t float64) string {
		if t >= 1 {
			return b
		}
		buf := make([]byte, 0, len(b)+8)
		for _, s := range segs {
			if !s.numeric {
				buf = append(buf, s.lit...)
				continue
			}
			v := s.from + (s.to-s.from)*t
			buf = strconv.AppendFloat(buf, roundTo(v, 6), 'f', -1, 64)
		}
		return string(buf)
	}
}

// roundTo trims float noise so intermediate frames stay readable
func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

package shape

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"github.com/lixenwraith/polarchain/vmath"
)

// segment is one straight piece of a flattened outline
type segment struct {
	a, b vmath.Point
}

// Outline is a flattened path: straight segments in drawing order
// Move commands start a new run and contribute no length
type Outline struct {
	segments []segment
	length   float64
}

// Length returns the total drawn length
func (o *Outline) Length() float64 {
	return o.length
}

// Sample returns points at arc-length distances 0, step, 2*step, ... strictly below Length
func (o *Outline) Sample(step float64) []vmath.Point {
	if step <= 0 || len(o.segments) == 0 {
		return nil
	}
	pts := make([]vmath.Point, 0, int(o.length/step)+1)
	seg := 0
	walked := 0.0
	for d := 0.0; d < o.length; d += step {
		for seg < len(o.segments)-1 {
			l := vmath.Dist(o.segments[seg].a, o.segments[seg].b)
			if walked+l > d {
				break
			}
			walked += l
			seg++
		}
		s := o.segments[seg]
		l := vmath.Dist(s.a, s.b)
		t := 0.0
		if l > 0 {
			t = math.Min((d-walked)/l, 1)
		}
		pts = append(pts, vmath.Lerp(s.a, s.b, t))
	}
	return pts
}

// ParsePath compiles SVG path data and flattens it into an Outline
// Coordinates are resolved to 1/64 unit
func ParsePath(d string) (*Outline, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return &Outline{}, nil
	}
	if d[0] != 'M' && d[0] != 'm' {
		return nil, fmt.Errorf("path data must start with a move command, got %q", d[0])
	}
	d, err := splitArcs(d)
	if err != nil {
		return nil, err
	}

	pc := oksvg.PathCursor{ErrorMode: oksvg.StrictErrorMode}
	if err := pc.CompilePath(d); err != nil {
		return nil, fmt.Errorf("compile path: %w", err)
	}

	var f flattener
	pc.Path.AddTo(&f)
	return &f.out, nil
}

// flattener is a rasterx.Adder that records straight segments
// Curves are subdivided with the rasterizer's own tolerance, computed in 26.6 units
type flattener struct {
	out   Outline
	cur   fixed.Point26_6
	start fixed.Point26_6
	open  bool
}

func fromFixed(p fixed.Point26_6) vmath.Point {
	return vmath.Pt(float64(p.X)/64, float64(p.Y)/64)
}

func (f *flattener) lineTo(q fixed.Point26_6) {
	if q != f.cur {
		a, b := fromFixed(f.cur), fromFixed(q)
		f.out.segments = append(f.out.segments, segment{a: a, b: b})
		f.out.length += vmath.Dist(a, b)
	}
	f.cur = q
}

// lineToRaw takes flattened points still scaled by 64
func (f *flattener) lineToRaw(x, y float32) {
	f.lineTo(fixed.Point26_6{X: fixed.Int26_6(math.Round(float64(x))), Y: fixed.Int26_6(math.Round(float64(y)))})
}

func (f *flattener) Start(a fixed.Point26_6) {
	f.cur, f.start = a, a
	f.open = true
}

func (f *flattener) Line(b fixed.Point26_6) {
	f.lineTo(b)
}

func (f *flattener) QuadBezier(b, c fixed.Point26_6) {
	rasterx.QuadTo(float32(f.cur.X), float32(f.cur.Y), float32(b.X), float32(b.Y),
		float32(c.X), float32(c.Y), f.lineToRaw)
}

func (f *flattener) CubeBezier(b, c, d fixed.Point26_6) {
	rasterx.CubeTo(float32(f.cur.X), float32(f.cur.Y), float32(b.X), float32(b.Y),
		float32(c.X), float32(c.Y), float32(d.X), float32(d.Y), f.lineToRaw)
}

func (f *flattener) Stop(closeLoop bool) {
	if !closeLoop || !f.open {
		return
	}
	f.lineTo(f.start)
	f.open = false
}

// splitArcs rewrites every arc command so each carries exactly one parameter set
// Flags may be packed against their neighbours ("1010" is large=1 sweep=0 x=10)
func splitArcs(d string) (string, error) {
	var sb strings.Builder
	sb.Grow(len(d))
	for len(d) > 0 {
		end := 1
		for end < len(d) && !isCommand(d[end]) {
			end++
		}
		seg := d[:end]
		d = d[end:]
		if seg[0] != 'a' && seg[0] != 'A' {
			sb.WriteString(seg)
			continue
		}
		sets, err := arcParams(seg[1:])
		if err != nil {
			return "", fmt.Errorf("command %q: %w", seg[0], err)
		}
		for _, v := range sets {
			sb.WriteByte(seg[0])
			for _, x := range v {
				sb.WriteString(strconv.FormatFloat(x, 'f', -1, 64))
				sb.WriteByte(' ')
			}
		}
	}
	return sb.String(), nil
}

// isCommand reports whether c starts a path command; e/E belong to exponents
func isCommand(c byte) bool {
	if c == 'e' || c == 'E' {
		return false
	}
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// arcParams reads one or more 7-value arc parameter sets
func arcParams(s string) ([][7]float64, error) {
	var (
		sets [][7]float64
		cur  [7]float64
		n    int
	)
	for {
		s = strings.TrimLeft(s, " ,\t\n\r")
		if s == "" {
			break
		}
		if n == 3 || n == 4 {
			if s[0] != '0' && s[0] != '1' {
				return nil, fmt.Errorf("arc flag must be 0 or 1, got %q", s[0])
			}
			cur[n] = float64(s[0] - '0')
			s = s[1:]
		} else {
			l := numberPrefix(s)
			if l == 0 {
				return nil, fmt.Errorf("unexpected character %q in arc parameters", s[0])
			}
			v, err := strconv.ParseFloat(s[:l], 64)
			if err != nil {
				return nil, fmt.Errorf("bad number %q: %w", s[:l], err)
			}
			cur[n] = v
			s = s[l:]
		}
		n++
		if n == 7 {
			sets = append(sets, cur)
			n = 0
		}
	}
	if n != 0 || len(sets) == 0 {
		return nil, errors.New("expected 7 arguments")
	}
	return sets, nil
}

// numberPrefix returns the length of the SVG number at the start of s
// Handles compact forms like "1.5.5" (two numbers) and "1-2"
func numberPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits, dot := false, false
	for i < len(s) {
		c := s[i]
		if c >= '0' && c <= '9' {
			digits = true
			i++
		} else if c == '.' && !dot {
			dot = true
			i++
		} else {
			break
		}
	}
	if !digits {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && s[k] >= '0' && s[k] <= '9' {
			k++
		}
		if k > j {
			i = k
		}
	}
	return i
}

package shape

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log"

	"go.uber.org/multierr"
	billy "gopkg.in/src-d/go-billy.v4"

	"github.com/lixenwraith/polarchain/vmath"
)

// ErrEmptyShape is returned when a file parses but yields no sample points
var ErrEmptyShape = errors.New("shape has no drawable paths")

// PathData extracts the d attribute of every <path> element in document order
func PathData(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	var paths []string
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return paths, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse svg: %w", err)
		}
		el, ok := tok.(xml.StartElement)
		if !ok || el.Name.Local != "path" {
			continue
		}
		for _, attr := range el.Attr {
			if attr.Name.Local == "d" {
				paths = append(paths, attr.Value)
				break
			}
		}
	}
}

// SampleSVG samples every path of an SVG document at the given arc-length step
// Paths are concatenated in document order
func SampleSVG(r io.Reader, step float64) ([]vmath.Point, error) {
	data, err := PathData(r)
	if err != nil {
		return nil, err
	}
	var pts []vmath.Point
	for i, d := range data {
		outline, err := ParsePath(d)
		if err != nil {
			return nil, fmt.Errorf("path %d: %w", i, err)
		}
		pts = append(pts, outline.Sample(step)...)
	}
	if len(pts) == 0 {
		return nil, ErrEmptyShape
	}
	return pts, nil
}

// LoadFile samples one SVG file from fs
func LoadFile(fs billy.Filesystem, name string, step float64) (pts []vmath.Point, err error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open shape %s: %w", name, err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	pts, err = SampleSVG(f, step)
	if err != nil {
		return nil, fmt.Errorf("shape %s: %w", name, err)
	}
	return pts, nil
}

// Load samples each file and concatenates the results in argument order
// Every failing file is reported; any failure returns no points
func Load(fs billy.Filesystem, names []string, step float64) ([]vmath.Point, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("no shape files given: %w", ErrEmptyShape)
	}
	var (
		all  []vmath.Point
		errs error
	)
	for _, name := range names {
		pts, err := LoadFile(fs, name, step)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		log.Printf("Loaded shape %s: %d points", name, len(pts))
		all = append(all, pts...)
	}
	if errs != nil {
		return nil, errs
	}
	return all, nil
}

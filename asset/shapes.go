package asset

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"go.uber.org/multierr"
	billy "gopkg.in/src-d/go-billy.v4"
	"gopkg.in/src-d/go-billy.v4/memfs"
)

//go:embed svgs/*.svg
var svgFiles embed.FS

// ShapeFS returns an in-memory filesystem holding the built-in shapes at its root
func ShapeFS() (billy.Filesystem, error) {
	entries, err := fs.ReadDir(svgFiles, "svgs")
	if err != nil {
		return nil, fmt.Errorf("failed to list built-in shapes: %w", err)
	}

	mem := memfs.New()
	for _, e := range entries {
		data, err := svgFiles.ReadFile(path.Join("svgs", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read built-in shape %s: %w", e.Name(), err)
		}
		if err := writeFile(mem, e.Name(), data); err != nil {
			return nil, err
		}
	}
	return mem, nil
}

func writeFile(dst billy.Filesystem, name string, data []byte) (err error) {
	f, err := dst.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer func() { err = multierr.Append(err, f.Close()) }()
	_, err = f.Write(data)
	return err
}

// Public domain.

package cube

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/mat"
)

// Cube files are gob streams of the fields in a fixed order, matching
// the 1-D dataset file scheme.

// Write encodes the cube to w.
func (c *Cube) Write(w io.Writer) error {
	enc := gob.NewEncoder(w)
	var rows, cols int
	var data []float64
	if c.EDisp != nil {
		rows, cols = c.EDisp.Dims()
		data = c.EDisp.RawMatrix().Data
	}
	for _, v := range []any{
		c.Name, c.Counts, c.Exposure, c.Background, c.BkgNorm,
		rows, cols, data,
	} {
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("cube: encode: %w", err)
		}
	}
	return nil
}

// Read decodes a cube from r.
func Read(r io.Reader) (*Cube, error) {
	dec := gob.NewDecoder(r)
	c := &Cube{}
	var rows, cols int
	var data []float64
	for _, v := range []any{
		&c.Name, &c.Counts, &c.Exposure, &c.Background, &c.BkgNorm,
		&rows, &cols, &data,
	} {
		if err := dec.Decode(v); err != nil {
			return nil, fmt.Errorf("cube: decode: %w", err)
		}
	}
	if rows > 0 && cols > 0 {
		c.EDisp = mat.NewDense(rows, cols, data)
	}
	return c, c.Check()
}

// WriteFile writes the cube to a file.
func (c *Cube) WriteFile(fn string) error {
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	if err := c.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads a cube file written by WriteFile.
func ReadFile(fn string) (*Cube, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

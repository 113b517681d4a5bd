// Public domain.

package dataset

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/mat"
)

// Dataset files are gob streams of the fields in a fixed order, the
// same scheme as the binned model files the reduction pipeline was
// derived from.  Counts round-trip bit for bit; the dispersion matrix
// is stored as raw dimensions plus data.

// Write encodes the dataset to w.
func (s *Spectrum) Write(w io.Writer) error {
	enc := gob.NewEncoder(w)
	for _, v := range []any{
		s.Name, s.Reco, s.True,
		s.OnCounts, s.OffCounts, s.Alpha, s.Exposure,
	} {
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("dataset: encode: %w", err)
		}
	}
	var rows, cols int
	var data []float64
	if s.EDisp != nil {
		rows, cols = s.EDisp.Dims()
		data = s.EDisp.RawMatrix().Data
	}
	for _, v := range []any{rows, cols, data, s.Mask, s.Incomplete, s.Reason} {
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("dataset: encode: %w", err)
		}
	}
	return nil
}

// Read decodes a dataset from r.
func Read(r io.Reader) (*Spectrum, error) {
	dec := gob.NewDecoder(r)
	s := &Spectrum{}
	var rows, cols int
	var data []float64
	for _, v := range []any{
		&s.Name, &s.Reco, &s.True,
		&s.OnCounts, &s.OffCounts, &s.Alpha, &s.Exposure,
		&rows, &cols, &data, &s.Mask, &s.Incomplete, &s.Reason,
	} {
		if err := dec.Decode(v); err != nil {
			return nil, fmt.Errorf("dataset: decode: %w", err)
		}
	}
	if rows > 0 && cols > 0 {
		s.EDisp = mat.NewDense(rows, cols, data)
	}
	return s, nil
}

// WriteFile writes the dataset to a file.
func (s *Spectrum) WriteFile(fn string) error {
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	if err := s.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads a dataset file written by WriteFile.
func ReadFile(fn string) (*Spectrum, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

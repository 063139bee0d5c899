// Package dataset reads and writes numeric matrices as CSV.
package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"
)

// Options controls the CSV dialect.
type Options struct {
	// Header reports whether the first record holds column names.
	Header bool
	// Comma is the field separator; zero means ','.
	Comma rune
}

// Table is a numeric matrix with optional column names.
type Table struct {
	Header []string
	Data   *mat.Dense
}

// Read parses r into a Table. Every record must have the same number of fields and every
// field must parse as a float64.
func Read(r io.Reader, opts Options) (*Table, error) {
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV")
	}

	var header []string
	if opts.Header && len(records) > 0 {
		header, records = records[0], records[1:]
	}
	if len(records) == 0 {
		return nil, errors.New("CSV has no data rows")
	}

	cols := len(records[0])
	data := make([]float64, 0, len(records)*cols)
	for i, rec := range records {
		line := i + 1
		if opts.Header {
			line++
		}
		for j, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d, column %d", line, j+1)
			}
			data = append(data, v)
		}
	}

	return &Table{Header: header, Data: mat.NewDense(len(records), cols, data)}, nil
}

// ReadFile reads the CSV file at path.
func ReadFile(path string, opts Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open data file")
	}
	defer f.Close()

	t, err := Read(f, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return t, nil
}

// Write writes m as CSV, preceded by header when it is non-empty.
func Write(w io.Writer, header []string, m mat.Matrix, opts Options) error {
	rows, cols := m.Dims()
	if len(header) > 0 && len(header) != cols {
		return errors.Newf("header has %d names for %d columns", len(header), cols)
	}

	cw := csv.NewWriter(w)
	if opts.Comma != 0 {
		cw.Comma = opts.Comma
	}
	if len(header) > 0 {
		if err := cw.Write(header); err != nil {
			return errors.Wrap(err, "failed to write CSV header")
		}
	}

	rec := make([]string, cols)
	for i := 0; i < rows; i++ {
		for j := range rec {
			rec[j] = strconv.FormatFloat(m.At(i, j), 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return errors.Wrapf(err, "failed to write CSV row %d", i+1)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "failed to flush CSV")
}

// WriteFile writes m to the CSV file at path.
func WriteFile(path string, header []string, m mat.Matrix, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create output file")
	}
	if err := Write(f, header, m, opts); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "failed to close output file")
}

// Names returns n column names: header when it has n entries, otherwise prefix0..prefix{n-1}.
func Names(header []string, prefix string, n int) []string {
	if len(header) == n {
		return append([]string(nil), header...)
	}
	names := make([]string, n)
	for i := range names {
		names[i] = prefix + strconv.Itoa(i)
	}
	return names
}

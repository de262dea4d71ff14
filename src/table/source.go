package table

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// DefaultNoisePrefixes are the line prefixes of test-runner output mixed into
// the benchmark stream (gtest status lines and "Note:" banners).
var DefaultNoisePrefixes = []string{"[", "Note:"}

// Options controls ingestion.
type Options struct {
	// NoisePrefixes drops any line starting with one of these before CSV parsing.
	// nil means DefaultNoisePrefixes; an empty non-nil slice disables filtering.
	NoisePrefixes []string
	// Comma is the field delimiter; 0 means ','.
	Comma rune
}

// DefaultOptions returns the ingestion defaults.
func DefaultOptions() Options {
	return Options{NoisePrefixes: DefaultNoisePrefixes, Comma: ','}
}

func (o Options) prefixes() []string {
	if o.NoisePrefixes == nil {
		return DefaultNoisePrefixes
	}
	return o.NoisePrefixes
}

// IsNoise reports whether line is harness chatter rather than CSV.
func (o Options) IsNoise(line string) bool {
	for _, p := range o.prefixes() {
		if p != "" && strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// filterNoise copies r keeping only data lines. Blank lines are dropped as well.
func filterNoise(r io.Reader, opts Options) (string, int, error) {
	var b strings.Builder
	dropped := 0
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if opts.IsNoise(line) {
			dropped++
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String(), dropped, sc.Err()
}

// Read parses one CSV stream. The first line surviving the noise filter is the
// header. A stream with no data rows yields an empty table, not an error.
func Read(r io.Reader, name string, opts Options) (*Table, error) {
	data, dropped, err := filterNoise(r, opts)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	cr := csv.NewReader(strings.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return newTable(name, nil), nil
		}
		return nil, fmt.Errorf("read header %s: %w", name, err)
	}
	t := newTable(name, header)
	if dropped > 0 {
		t.Warnings = append(t.Warnings, fmt.Sprintf("dropped %d harness log lines", dropped))
	}
	ncol := len(header)
	for rec := 1; ; rec++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s record %d: %w", name, rec, err)
		}
		if len(fields) != ncol {
			t.Warnings = append(t.Warnings, fmt.Sprintf("record %d has %d fields, header has %d; skipped", rec, len(fields), ncol))
			continue
		}
		t.append(fields)
	}
	t.inferKinds()
	return t, nil
}

// ReadFile reads a CSV file. "-" or "" reads standard input; a ".gz" suffix is
// decompressed on the fly.
func ReadFile(path string, opts Options) (*Table, error) {
	if path == "" || path == "-" {
		return Read(os.Stdin, "stdin", opts)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gunzip %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}
	return Read(r, DatasetName(path), opts)
}

// DatasetName strips directories and the .csv / .csv.gz extension.
func DatasetName(path string) string {
	base := filepath.Base(path)
	lower := strings.ToLower(base)
	switch {
	case strings.HasSuffix(lower, ".csv.gz"):
		return base[:len(base)-len(".csv.gz")]
	case strings.HasSuffix(lower, ".csv"):
		return base[:len(base)-len(".csv")]
	case strings.HasSuffix(lower, ".gz"):
		return base[:len(base)-len(".gz")]
	}
	return base
}

// FromRecords builds a table from in-memory records (header first). Records with
// a mismatched field count are dropped with a warning, as in Read.
func FromRecords(name string, records [][]string) *Table {
	if len(records) == 0 {
		return newTable(name, nil)
	}
	t := newTable(name, records[0])
	for i, rec := range records[1:] {
		if len(rec) != len(records[0]) {
			t.Warnings = append(t.Warnings, fmt.Sprintf("record %d has %d fields, header has %d; skipped", i+1, len(rec), len(records[0])))
			continue
		}
		t.append(rec)
	}
	t.inferKinds()
	return t
}

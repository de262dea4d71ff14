package table

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/iafilius/TUVxPlots/src/logging"
)

// Dataset is a directory of named tables.
type Dataset struct {
	Dir    string
	Tables map[string]*Table
	// Files lists the CSV files found, sorted.
	Files []string
	// Missing lists expected dataset names that had no file.
	Missing []string
}

// Get returns the named table, or nil when it was not loaded.
func (d *Dataset) Get(name string) *Table {
	if d == nil {
		return nil
	}
	return d.Tables[name]
}

// Has reports whether the named table was loaded.
func (d *Dataset) Has(name string) bool { return d.Get(name) != nil }

func isCSVFile(name string) bool {
	n := strings.ToLower(name)
	return strings.HasSuffix(n, ".csv") || strings.HasSuffix(n, ".csv.gz")
}

// LoadDir loads every *.csv / *.csv.gz under dir (non-recursive) as its own table.
// Expected names that are absent, and files that fail to parse, are warnings: the
// table is simply not in the Dataset. Only an unreadable directory is an error.
func LoadDir(dir string, expected []string, opts Options) (*Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	ds := &Dataset{Dir: dir, Tables: map[string]*Table{}}
	for _, e := range entries {
		if e.IsDir() || !isCSVFile(e.Name()) {
			continue
		}
		ds.Files = append(ds.Files, e.Name())
	}
	sort.Strings(ds.Files)
	for _, name := range ds.Files {
		path := filepath.Join(dir, name)
		t, err := ReadFile(path, opts)
		if err != nil {
			logging.Warnf("skipping %s: %v", path, err)
			continue
		}
		key := DatasetName(name)
		if _, dup := ds.Tables[key]; dup {
			logging.Warnf("duplicate dataset %q (%s); keeping the first", key, name)
			continue
		}
		for _, w := range t.Warnings {
			logging.Debugf("%s: %s", name, w)
		}
		ds.Tables[key] = t
	}
	for _, want := range expected {
		if _, ok := ds.Tables[want]; !ok {
			ds.Missing = append(ds.Missing, want)
			logging.Warnf("%s not found in %s", want+".csv", dir)
		}
	}
	return ds, nil
}

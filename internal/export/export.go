// Package export reads and writes finished questionnaire records: the
// JSON answers file and a flattened XLSX workbook for analysis.
package export

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/mod/semver"

	"github.com/abhisek/medval/internal/questionnaire"
)

const (
	filePrefix = "validation_answers_"
	// fileStamp is RFC 3339 in UTC with milliseconds and no colons.
	fileStamp = "2006-01-02T15-04-05.000Z"
)

// ErrExists is returned by WriteFile when the answers file is already
// there. Existing files are never replaced.
var ErrExists = errors.New("export: answers file already exists")

// FileName returns the answers file name for rec, e.g.
// "validation_answers_2025-03-01T10-30-00.000Z_3f2a.json". The session id
// keeps two sessions finished in the same millisecond apart.
func FileName(rec questionnaire.ExportRecord) string {
	name := filePrefix + rec.Timestamp.UTC().Format(fileStamp)
	if id := safeID(rec.SessionID); id != "" {
		name += "_" + id
	}
	return name + ".json"
}

// Path is where WriteFile puts rec inside dir.
func Path(dir string, rec questionnaire.ExportRecord) string {
	return filepath.Join(dir, FileName(rec))
}

func safeID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return -1
	}, id)
}

// CheckVersion accepts a record schema version whose major version
// matches questionnaire.ExportSchemaVersion.
func CheckVersion(v string) error {
	if !semver.IsValid(v) {
		return eris.Errorf("export: invalid schema version %q", v)
	}
	if want := semver.Major(questionnaire.ExportSchemaVersion); semver.Major(v) != want {
		return eris.Errorf("export: schema version %s is not compatible with %s", v, want)
	}
	return nil
}

// Encode writes rec as indented JSON.
func Encode(w io.Writer, rec questionnaire.ExportRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return eris.Wrap(err, "export: encode record")
	}
	return nil
}

// Decode reads one JSON record and checks its schema version.
func Decode(r io.Reader) (questionnaire.ExportRecord, error) {
	var rec questionnaire.ExportRecord
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return rec, eris.Wrap(err, "export: decode record")
	}
	if err := CheckVersion(rec.SchemaVersion); err != nil {
		return rec, err
	}
	return rec, nil
}

// WriteFile writes rec to Path(dir, rec) and returns the path. The record
// is written to a temporary file first and then linked into place, so
// readers never see a partial record and an existing file yields
// ErrExists.
func WriteFile(dir string, rec questionnaire.ExportRecord) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "export: create %s", dir)
	}
	path := Path(dir, rec)

	tmp, err := os.CreateTemp(dir, ".answers-*.tmp")
	if err != nil {
		return "", eris.Wrap(err, "export: create temp file")
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, rec); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", eris.Wrap(err, "export: close temp file")
	}
	if err := os.Link(tmp.Name(), path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", eris.Wrap(ErrExists, path)
		}
		return "", eris.Wrapf(err, "export: link %s", path)
	}
	return path, nil
}

// ReadFile reads one answers file.
func ReadFile(path string) (questionnaire.ExportRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return questionnaire.ExportRecord{}, eris.Wrapf(err, "export: open %s", path)
	}
	defer f.Close()
	rec, err := Decode(f)
	if err != nil {
		return rec, eris.Wrapf(err, "export: read %s", path)
	}
	return rec, nil
}

// ReadDir reads every answers file in dir, oldest first.
func ReadDir(dir string) ([]questionnaire.ExportRecord, error) {
	paths, err := filepath.Glob(filepath.Join(dir, filePrefix+"*.json"))
	if err != nil {
		return nil, eris.Wrap(err, "export: list answers files")
	}
	recs := make([]questionnaire.ExportRecord, 0, len(paths))
	for _, p := range paths {
		rec, err := ReadFile(p)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Timestamp.Before(recs[j].Timestamp)
	})
	return recs, nil
}

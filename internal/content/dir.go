package content

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/abhisek/medval/internal/questionnaire"
)

// InstructionsFile and Step1IntroFile are optional text files in a
// content directory.
const (
	InstructionsFile = "instructions.html"
	Step1IntroFile   = "step1_intro.txt"
)

// DirSource reads question files from a directory. Each section's file
// may be .json, .yaml or .yml; a missing file yields an empty set.
type DirSource struct {
	dir string
}

// NewDirSource creates a DirSource rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// Dir returns the content directory.
func (d *DirSource) Dir() string { return d.dir }

func (d *DirSource) Instructions(_ context.Context) (string, error) {
	return d.readText(InstructionsFile, DefaultInstructions)
}

func (d *DirSource) Step1Intro(_ context.Context) (string, error) {
	return d.readText(Step1IntroFile, questionnaire.DefaultStep1Intro)
}

func (d *DirSource) readText(name, fallback string) (string, error) {
	data, err := os.ReadFile(filepath.Join(d.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return fallback, nil
	}
	if err != nil {
		return "", eris.Wrapf(err, "content: read %s", name)
	}
	if s := strings.TrimSpace(string(data)); s != "" {
		return s, nil
	}
	return fallback, nil
}

func (d *DirSource) Questions(ctx context.Context, s questionnaire.Section) ([]questionnaire.Question, error) {
	base := FileName(s)
	if base == "" {
		return nil, eris.Errorf("content: section %s has no questions", s)
	}

	for _, ext := range []string{".json", ".yaml", ".yml"} {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(d.dir, base+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, eris.Wrapf(err, "content: read %s", path)
		}

		var qs []questionnaire.Question
		if ext == ".json" {
			qs, err = ParseJSON(data)
		} else {
			qs, err = ParseYAML(data)
		}
		if err != nil {
			return nil, eris.Wrapf(err, "content: parse %s", path)
		}
		return qs, nil
	}

	zap.L().Warn("content: question file not found",
		zap.String("dir", d.dir),
		zap.String("file", base),
		zap.Stringer("section", s),
	)
	return []questionnaire.Question{}, nil
}

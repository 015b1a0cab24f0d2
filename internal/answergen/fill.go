package answergen

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/medval/internal/content"
	"github.com/abhisek/medval/internal/questionnaire"
)

// Result summarises one Fill.
type Result struct {
	Path    string
	Filled  int
	Skipped int
	// Failed maps question index to the reason no answer was written.
	Failed map[int]error
}

// Fill drafts answers for questions missing one and returns the updated
// set. Individual failures are recorded in the result and leave that
// question unchanged; only a cancelled ctx aborts the run.
func Fill(ctx context.Context, gen Generator, qs []questionnaire.Question, cfg Config) ([]questionnaire.Question, Result, error) {
	out := make([]questionnaire.Question, len(qs))
	copy(out, qs)
	res := Result{Failed: map[int]error{}}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	if cfg.Concurrency > 0 {
		g.SetLimit(cfg.Concurrency)
	}

	for i, q := range qs {
		if strings.TrimSpace(q.AIAnswer) != "" && !cfg.Overwrite {
			res.Skipped++
			continue
		}
		g.Go(func() error {
			answer, err := gen.Answer(gctx, q)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				zap.L().Warn("answergen: question failed", zap.Int("index", i), zap.Error(err))
				res.Failed[i] = err
				return nil
			}
			out[i].AIAnswer = answer
			res.Filled++
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, res, err
	}
	return out, res, nil
}

// FillFile fills one question file in place, keeping its format. The file
// is left untouched when nothing was filled.
func FillFile(ctx context.Context, gen Generator, path string, cfg Config) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{Path: path}, eris.Wrapf(err, "answergen: read %s", path)
	}

	yamlFile := isYAML(path)
	var qs []questionnaire.Question
	if yamlFile {
		qs, err = content.ParseYAML(data)
	} else {
		qs, err = content.ParseJSON(data)
	}
	if err != nil {
		return Result{Path: path}, eris.Wrapf(err, "answergen: parse %s", path)
	}

	filled, res, err := Fill(ctx, gen, qs, cfg)
	res.Path = path
	if err != nil || res.Filled == 0 {
		return res, err
	}

	if yamlFile {
		data, err = encodeYAML(filled)
	} else {
		data, err = json.MarshalIndent(filled, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return res, eris.Wrapf(err, "answergen: encode %s", path)
	}
	if err := writeAtomic(path, data); err != nil {
		return res, err
	}

	zap.L().Info("answergen: file updated",
		zap.String("path", path),
		zap.Int("filled", res.Filled),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", len(res.Failed)),
	)
	return res, nil
}

// Files returns the step 1 and step 2 question files present in dir.
func Files(dir string) []string {
	var paths []string
	for _, s := range []questionnaire.Section{questionnaire.SectionStep1Rating, questionnaire.SectionStep2QA} {
		for _, ext := range []string{".json", ".yaml", ".yml"} {
			p := filepath.Join(dir, content.FileName(s)+ext)
			if _, err := os.Stat(p); err == nil {
				paths = append(paths, p)
				break
			}
		}
	}
	return paths
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func encodeYAML(qs []questionnaire.Question) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(qs); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".answergen-*.tmp")
	if err != nil {
		return eris.Wrap(err, "answergen: create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return eris.Wrap(err, "answergen: write temp file")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "answergen: close temp file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return eris.Wrapf(err, "answergen: replace %s", path)
	}
	return nil
}

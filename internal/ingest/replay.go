package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"agri-advisor/internal/services/advisor"
)

// Result is one parsed reply file.
type Result struct {
	File   string       `json:"file"`
	Kind   advisor.Kind `json:"kind"`
	Parsed any          `json:"parsed"`
}

// Replayer parses saved raw model replies offline, without calling a model.
type Replayer struct {
	out io.Writer
}

// NewReplayer creates a Replayer that writes indented JSON to out.
func NewReplayer(out io.Writer) *Replayer {
	return &Replayer{out: out}
}

// KindForFile infers the question kind from a file name prefix
// (crop*.txt, pest*.txt, climate*.txt).
func KindForFile(path string) (advisor.Kind, bool) {
	name := strings.ToLower(filepath.Base(path))
	if !strings.HasSuffix(name, ".txt") {
		return "", false
	}
	switch {
	case strings.HasPrefix(name, "crop"):
		return advisor.KindCrop, true
	case strings.HasPrefix(name, "pest"):
		return advisor.KindPest, true
	case strings.HasPrefix(name, "climate"):
		return advisor.KindClimate, true
	}
	return "", false
}

// ReplayDirectory parses every recognized reply file under dirPath in lexical
// order and returns how many files were written.
func (r *Replayer) ReplayDirectory(dirPath string) (int, error) {
	count := 0
	err := filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		kind, ok := KindForFile(path)
		if !ok {
			log.Debug().Str("file", path).Msg("Skipping unrecognized file")
			return nil
		}

		if err := r.ReplayFile(path, kind); err != nil {
			return err
		}
		count++
		return nil
	})
	return count, err
}

// ReplayFile parses a single reply file as kind.
func (r *Replayer) ReplayFile(path string, kind advisor.Kind) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}

	parsed, err := advisor.ParseRaw(kind, string(raw))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(Result{File: path, Kind: kind, Parsed: parsed}); err != nil {
		return fmt.Errorf("failed to write result for %s: %w", path, err)
	}
	return nil
}

package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/roach88/deepclone/internal/clone"
	"github.com/roach88/deepclone/internal/fixture"
	"github.com/roach88/deepclone/internal/value"
)

// loadGraph reads a fixture file, reporting failures through the formatter.
func loadGraph(f *OutputFormatter, path string) (value.Value, error) {
	f.VerboseLog("Loading fixture %s", path)

	v, err := fixture.LoadFile(path)
	if err == nil {
		return v, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, f.Fail(ErrCodeNotFound, fmt.Sprintf("fixture not found: %s", path), nil)
	}

	var loadErr *fixture.LoadError
	if errors.As(err, &loadErr) {
		details := map[string]any{"code": loadErr.Code, "file": loadErr.File}
		if loadErr.Line > 0 {
			details["line"] = loadErr.Line
			details["column"] = loadErr.Column
		}
		return nil, f.Fail(ErrCodeLoadFailed, loadErr.Error(), details)
	}
	return nil, f.Fail(ErrCodeLoadFailed, err.Error(), nil)
}

// parseModeFlag accepts only the two spelled-out modes. The library's
// lenient parsing is for configuration values, not user flags.
func parseModeFlag(s string) (clone.Mode, error) {
	switch s {
	case "alias":
		return clone.ModeAlias, nil
	case "copy":
		return clone.ModeCopy, nil
	}
	return clone.ModeAlias, fmt.Errorf("invalid mode %q: must be alias or copy", s)
}

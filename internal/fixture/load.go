package fixture

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/deepclone/internal/value"
)

// LoadFile reads path and decodes it according to its extension:
// .yaml, .yml and .json go through the YAML loader, .cue through CUE.
func LoadFile(path string) (value.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeRead, Message: err.Error(), File: path, Err: err}
	}
	return Load(data, path)
}

// Load decodes data, choosing the format from the extension of name.
func Load(data []byte, name string) (value.Value, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return LoadYAML(data, name)
	case ".cue":
		return LoadCUE(data, name)
	default:
		return nil, &LoadError{
			Code:    ErrCodeFormat,
			Message: fmt.Sprintf("unsupported fixture format %q", filepath.Ext(name)),
			File:    name,
		}
	}
}

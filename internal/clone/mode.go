package clone

import "strings"

// Mode selects how nested special containers are treated.
type Mode int

const (
	// ModeAlias shares nested special containers by reference.
	ModeAlias Mode = iota
	// ModeCopy rebuilds every container with independent storage.
	ModeCopy
)

// normalize maps any unknown mode to ModeAlias.
func (m Mode) normalize() Mode {
	if m == ModeCopy {
		return ModeCopy
	}
	return ModeAlias
}

func (m Mode) String() string {
	if m.normalize() == ModeCopy {
		return "copy"
	}
	return "alias"
}

// ParseMode reads a mode flag. "copy", "true" and "1" select ModeCopy;
// anything else is ModeAlias.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "copy", "true", "1":
		return ModeCopy
	default:
		return ModeAlias
	}
}

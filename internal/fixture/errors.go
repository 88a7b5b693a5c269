package fixture

import "fmt"

// Error codes for fixture loading.
const (
	ErrCodeRead   = "F001" // file could not be read
	ErrCodeSyntax = "F002" // document does not parse
	ErrCodeTag    = "F003" // unknown tag or malformed tagged scalar
	ErrCodeValue  = "F004" // value could not be constructed
	ErrCodeFormat = "F005" // unsupported file extension
	ErrCodeEmpty  = "F006" // document holds no value
)

// LoadError reports a fixture that could not be turned into a graph.
type LoadError struct {
	Code    string
	Message string
	File    string
	Line    int
	Column  int
	Err     error
}

func (e *LoadError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.File, e.Line, e.Column, e.Code, e.Message)
	case e.File != "":
		return fmt.Sprintf("%s: %s: %s", e.File, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

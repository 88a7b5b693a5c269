package value

import (
	"errors"
	"fmt"
)

// ErrConstruction is wrapped by every constructor failure in this package.
var ErrConstruction = errors.New("construction failed")

func constructionErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConstruction, fmt.Sprintf(format, args...))
}

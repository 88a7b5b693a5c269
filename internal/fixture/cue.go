package fixture

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/deepclone/internal/value"
)

// LoadCUE compiles a CUE document and converts its value. Structs become
// records with field order kept, lists become sequences. Every field must
// be concrete. CUE has no references between values once evaluated, so
// the resulting graph is a tree.
func LoadCUE(data []byte, name string) (value.Value, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(name))
	if err := v.Err(); err != nil {
		return nil, cueLoadError(err, name)
	}
	return fromCUE(v, name)
}

func fromCUE(v cue.Value, name string) (value.Value, error) {
	if !v.IsConcrete() {
		return nil, posError(v.Pos(), name, ErrCodeValue,
			fmt.Sprintf("value at %s is not concrete", v.Path()))
	}
	if err := v.Err(); err != nil {
		return nil, cueLoadError(err, name)
	}

	switch v.Kind() {
	case cue.StructKind:
		iter, err := v.Fields(cue.Hidden(true))
		if err != nil {
			return nil, cueLoadError(err, name)
		}
		rec := value.NewRecord()
		for iter.Next() {
			label := iter.Label()
			member, err := fromCUE(iter.Value(), name)
			if err != nil {
				return nil, err
			}
			rec.Own().Define(value.Member{
				Key:    label,
				Value:  member,
				Hidden: strings.HasPrefix(label, "_"),
			})
		}
		return rec, nil

	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, cueLoadError(err, name)
		}
		seq := value.NewSequence()
		for iter.Next() {
			elem, err := fromCUE(iter.Value(), name)
			if err != nil {
				return nil, err
			}
			seq.Append(elem)
		}
		return seq, nil

	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, cueLoadError(err, name)
		}
		return value.String(s), nil

	case cue.IntKind, cue.FloatKind, cue.NumberKind:
		f, err := v.Float64()
		if err != nil {
			return nil, cueLoadError(err, name)
		}
		return value.Number(f), nil

	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, cueLoadError(err, name)
		}
		return value.Bool(b), nil

	case cue.BytesKind:
		b, err := v.Bytes()
		if err != nil {
			return nil, cueLoadError(err, name)
		}
		return value.BufferFrom(b), nil

	case cue.NullKind:
		return value.Null{}, nil
	}

	return nil, posError(v.Pos(), name, ErrCodeValue,
		fmt.Sprintf("unsupported CUE kind %s at %s", v.Kind(), v.Path()))
}

// cueLoadError converts a CUE error into a LoadError at its first position.
func cueLoadError(err error, name string) *LoadError {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: ErrCodeSyntax, Message: err.Error(), File: name, Err: err}
	}
	first := errs[0]
	le := &LoadError{Code: ErrCodeSyntax, Message: first.Error(), File: name, Err: err}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		le.Line = positions[0].Line()
		le.Column = positions[0].Column()
	}
	return le
}

func posError(pos token.Pos, name, code, msg string) *LoadError {
	le := &LoadError{Code: code, Message: msg, File: name}
	if pos.IsValid() {
		le.Line = pos.Line()
		le.Column = pos.Column()
	}
	return le
}

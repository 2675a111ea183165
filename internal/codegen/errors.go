package codegen

import (
	"github.com/cockroachdb/errors"
)

// Error markers. Test with errors.Is.
var (
	// ErrUnsupported marks an IDL construct with no lowering rule.
	ErrUnsupported = errors.New("unsupported construct")

	// ErrMissingContext marks a node visited without the enclosing
	// declaration name it needs.
	ErrMissingContext = errors.New("missing enclosing name")

	// ErrInvalidValue marks a literal that cannot be decoded, such as a
	// public key that is not 32 bytes of base58.
	ErrInvalidValue = errors.New("invalid value")

	// ErrDuplicatePath marks two render maps producing the same file.
	ErrDuplicatePath = errors.New("duplicate output path")
)

func unsupported(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrUnsupported)
}

func missingContext(what string) error {
	return errors.WithHint(
		errors.Mark(errors.Newf("%s must have a parent name", what), ErrMissingContext),
		"visit it through an account, defined type or instruction",
	)
}

func invalidValue(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrInvalidValue)
}

// errorsWithField prefixes err with the struct field it came from.
func errorsWithField(err error, field string) error {
	return errors.Wrapf(err, "field %s", field)
}

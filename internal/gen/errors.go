package gen

import (
	"errors"
	"fmt"

	"github.com/duje-begonja-rdx/radixdlt-scrypto/schema"
)

// Exit codes for the distinct failure kinds. Anything else exits 1.
const (
	ExitOK              = 0
	ExitFailure         = 1
	ExitResolution      = 3
	ExitUnsupportedType = 4
	ExitConflict        = 5
)

// ResolutionError reports a failed schema query: unknown address, connection
// failure, or a malformed schema payload. Never retried.
type ResolutionError struct {
	Address string
	Err     error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve package %s: %v", e.Address, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// UnsupportedTypeError reports a primitive or type shape the translator
// cannot map to a host declaration.
type UnsupportedTypeError struct {
	Blueprint string
	Type      string
	Reason    string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Blueprint == "" {
		return fmt.Sprintf("unsupported type %s: %s", e.Type, e.Reason)
	}
	return fmt.Sprintf("blueprint %s: unsupported type %s: %s", e.Blueprint, e.Type, e.Reason)
}

// DuplicateDefinitionConflict reports one symbol-table key resolving to two
// structurally different definitions. Always fatal: silently picking one
// would miscompile call payloads.
type DuplicateDefinitionConflict struct {
	Key schema.TypeName
}

func (e *DuplicateDefinitionConflict) Error() string {
	return fmt.Sprintf("conflicting definitions for type %s", e.Key)
}

// ExitCode maps an error to the process exit code for its kind.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var resolution *ResolutionError
	if errors.As(err, &resolution) {
		return ExitResolution
	}
	var unsupported *UnsupportedTypeError
	if errors.As(err, &unsupported) {
		return ExitUnsupportedType
	}
	var conflict *DuplicateDefinitionConflict
	if errors.As(err, &conflict) {
		return ExitConflict
	}
	return ExitFailure
}

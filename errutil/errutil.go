// Package errutil provides small invariant-checking helpers shared across
// eftc's packages. These guard internal bugs, not caller-facing errors: the
// latter are always plain errors returned from exported functions (see
// spec.md §7 for the error taxonomy).
package errutil

import "fmt"

// debug gates the cost of invariant checks that would otherwise show up in
// profiles of the hot lookup and build paths.
const debug = false

// First returns the first non-nil error, or nil if all are nil.
func First(errs ...error) error {
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// FatalIf panics if err is non-nil. Used only at entry points where an error
// signals a broken invariant rather than a recoverable condition.
func FatalIf(err error) {
	if err == nil {
		return
	}
	panic(fmt.Sprintf("FATAL: %v", err))
}

// Bug panics with the formatted message when built with debug assertions
// enabled. It is a no-op otherwise.
func Bug(format string, msg ...any) {
	if debug {
		panic(fmt.Sprintf(format, msg...))
	}
}

// BugOn panics with the formatted message if cond is true and debug
// assertions are enabled.
func BugOn(cond bool, format string, msg ...any) {
	if debug && cond {
		Bug(format, msg...)
	}
}

// BugOnNotEq panics if a != b and debug assertions are enabled.
func BugOnNotEq(a, b any) {
	if a == b {
		return
	}
	Bug("BUG: a != b, %v != %v", a, b)
}

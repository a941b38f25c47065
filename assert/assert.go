package assert

import "github.com/oomph-ac/knockback/oerror"

// IsTrue panics with the formatted message if ok is false. It guards programmer errors only;
// world state that can legitimately change between ticks must never be asserted on.
func IsTrue(ok bool, message string, args ...any) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}

// NotNil panics if v is nil.
func NotNil(v any, name string) {
	if v == nil {
		panic(oerror.New("%s must not be nil", name))
	}
}

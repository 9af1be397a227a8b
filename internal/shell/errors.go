package shell

import "errors"

// ErrResolution is reported when no descriptor exists for an application.
var ErrResolution = errors.New("window definition not found")

// ErrHookFailure is reported when a first-open or teardown hook fails.
var ErrHookFailure = errors.New("application hook failed")

// ErrInvariant is reported when registry state is inconsistent.
var ErrInvariant = errors.New("shell invariant violated")

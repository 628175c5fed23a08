package sim

import "errors"

// Remove, update, and clear operations on missing ids are deliberately
// no-ops rather than errors: independent systems can discover an entity's
// disappearance in the same tick (defeat-by-damage racing
// removal-by-cleanup) and both must be allowed to clean up.
var (
	// ErrDuplicateID is returned when adding an entity whose id is
	// already registered. Duplicate ids would make combat outcomes
	// non-reproducible, so they are programmer/spawner misuse.
	ErrDuplicateID = errors.New("duplicate id")
)

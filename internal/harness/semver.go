package harness

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// ValidateSince checks a @since value. Only full versions without a leading
// "v" are accepted: "8.0.0" and "8.1.0-beta.1" pass, "v8" and "8.0" fail.
func ValidateSince(since string, present bool) error {
	if !present {
		return ErrMissingSince
	}
	if since == "" || strings.HasPrefix(since, "v") {
		return fmt.Errorf("%w: %q", ErrInvalidSince, since)
	}
	if !semver.IsValid("v" + since) {
		return fmt.Errorf("%w: %q", ErrInvalidSince, since)
	}
	core, _, _ := strings.Cut(since, "+")
	core, _, _ = strings.Cut(core, "-")
	if strings.Count(core, ".") != 2 {
		return fmt.Errorf("%w: %q", ErrInvalidSince, since)
	}
	return nil
}

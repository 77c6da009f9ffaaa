// Package options provides shared helpers for validating caller-supplied
// option combinations.
package options

import "errors"

// ValidateSingleInputSource ensures exactly one input source is set. Each
// boolean in sources reports whether that source was provided; zero set
// sources returns noSourceMsg as an error, more than one returns
// multiSourceMsg.
func ValidateSingleInputSource(noSourceMsg, multiSourceMsg string, sources ...bool) error {
	count := 0
	for _, set := range sources {
		if set {
			count++
		}
	}
	switch {
	case count == 0:
		return errors.New(noSourceMsg)
	case count > 1:
		return errors.New(multiSourceMsg)
	}
	return nil
}

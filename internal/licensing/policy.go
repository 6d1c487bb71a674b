package licensing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/saimn/fitslic/internal/fitshdr"
)

// DeletePolicy decides what Delete does when a keyword is missing.
type DeletePolicy int

const (
	// StopOnFirstMiss treats the keywords as all-or-nothing: deletion stops
	// at the first missing keyword. Keywords deleted before it stay deleted.
	StopOnFirstMiss DeletePolicy = iota
	// DeleteEach attempts every keyword independently.
	DeleteEach
)

func (p DeletePolicy) String() string {
	switch p {
	case StopOnFirstMiss:
		return "stop"
	case DeleteEach:
		return "all"
	default:
		return fmt.Sprintf("DeletePolicy(%d)", int(p))
	}
}

// ParseDeletePolicy parses "stop" or "all".
func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "stop":
		return StopOnFirstMiss, nil
	case "all":
		return DeleteEach, nil
	default:
		return 0, fmt.Errorf("licensing: unknown delete policy %q (want stop or all)", s)
	}
}

// apply deletes keys from f and returns the keys found missing.
func (p DeletePolicy) apply(f *fitshdr.File, keys []string) ([]string, error) {
	var missing []string
	for _, key := range keys {
		err := f.Delete(key)
		switch {
		case err == nil:
		case errors.Is(err, fitshdr.ErrKeyNotFound):
			missing = append(missing, key)
			if p == StopOnFirstMiss {
				return missing, nil
			}
		default:
			return missing, err
		}
	}
	return missing, nil
}

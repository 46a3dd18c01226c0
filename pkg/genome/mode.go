package genome

import (
	"math/rand"

	"github.com/mutualist/evoprompt/pkg/errors"
)

// Mode tags a genome with the evolutionary strategy it was bred under.
// The tag is descriptive lineage metadata; the genome itself never reads it.
type Mode string

const (
	// ModeDarwin marks competitive selection: survival of the fittest.
	ModeDarwin Mode = "darwin"

	// ModeKropotkin marks cooperative selection: knowledge sharing via the Commons.
	ModeKropotkin Mode = "kropotkin"
)

// ParseMode converts a string to a Mode. Unknown strings are rejected rather
// than silently falling back to cooperative selection.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDarwin:
		return ModeDarwin, nil
	case ModeKropotkin:
		return ModeKropotkin, nil
	default:
		return "", errors.WithFields(
			errors.New(errors.InvalidMode, "unrecognized evolutionary mode"),
			errors.Fields{"mode": s})
	}
}

func (m Mode) String() string {
	return string(m)
}

// randomMode picks a mode uniformly for initial population members.
func randomMode(rng *rand.Rand) Mode {
	if rng.Intn(2) == 0 {
		return ModeDarwin
	}
	return ModeKropotkin
}

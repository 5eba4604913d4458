package naming

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/backmassage/aniconvert/internal/config"
)

// ErrDestinationExists reports a destination that the collision policy does
// not allow to be written.
var ErrDestinationExists = errors.New("destination already exists")

// ErrNotRegularFile reports a destination path occupied by a directory or
// other non-regular file.
var ErrNotRegularFile = errors.New("destination is not a regular file")

// maxRenameAttempts bounds the " - dupN" search.
const maxRenameAttempts = 10000

// Action is what the job does with a destination.
type Action int

const (
	ActionProceed Action = iota // write to Path (new file or overwrite)
	ActionSkip                  // leave the existing file, do not encode
	ActionRename                // write to Path, a free " - dupN" variant
	ActionFail                  // report the file as failed
)

func (a Action) String() string {
	switch a {
	case ActionProceed:
		return "proceed"
	case ActionSkip:
		return "skip"
	case ActionRename:
		return "rename"
	case ActionFail:
		return "fail"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Decision is the outcome of applying a collision policy to a destination.
type Decision struct {
	Action Action
	Path   string
	Reason string
}

// Probe reports whether something already occupies path.
type Probe func(path string) (bool, error)

// FileExists is the filesystem Probe. A directory at path is an error, not
// an existing file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if !info.Mode().IsRegular() {
		return true, fmt.Errorf("%q: %w", path, ErrNotRegularFile)
	}
	return true, nil
}

// Resolve applies policy to dest. probe errors are returned unchanged in
// meaning (wrapped); the Decision is only meaningful when err is nil.
// Resolve never chooses to overwrite unless policy is overwrite.
func Resolve(dest string, policy config.CollisionPolicy, probe Probe) (Decision, error) {
	exists, err := probe(dest)
	if err != nil {
		return Decision{}, fmt.Errorf("probe destination: %w", err)
	}
	if !exists {
		return Decision{Action: ActionProceed, Path: dest}, nil
	}

	switch policy {
	case config.CollisionSkip:
		return Decision{Action: ActionSkip, Path: dest, Reason: "already exists"}, nil
	case config.CollisionOverwrite:
		return Decision{Action: ActionProceed, Path: dest, Reason: "overwriting existing file"}, nil
	case config.CollisionRename:
		for n := 1; n <= maxRenameAttempts; n++ {
			candidate := dupPath(dest, n)
			taken, err := probe(candidate)
			if err != nil {
				return Decision{}, fmt.Errorf("probe destination: %w", err)
			}
			if !taken {
				return Decision{Action: ActionRename, Path: candidate, Reason: "renamed to avoid existing file"}, nil
			}
		}
		return Decision{}, fmt.Errorf("%w: no free rename candidate for %q", ErrDestinationExists, dest)
	default: // CollisionFail
		return Decision{Action: ActionFail, Path: dest, Reason: "already exists"}, nil
	}
}

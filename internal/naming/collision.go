package naming

import (
	"sync"

	"github.com/backmassage/aniconvert/internal/config"
)

// Registry tracks destination paths claimed by source files during one run
// so that concurrent jobs never choose the same destination. A path claimed
// by another source counts as existing. All methods are goroutine-safe.
type Registry struct {
	mu     sync.Mutex
	owners map[string]string // destination path → source path that owns it
	probe  Probe
}

// NewRegistry creates a registry backed by probe for on-disk checks.
func NewRegistry(probe Probe) *Registry {
	if probe == nil {
		probe = FileExists
	}
	return &Registry{
		owners: make(map[string]string),
		probe:  probe,
	}
}

// Resolve applies policy to dest on behalf of source and, when the decision
// writes a file, claims the chosen path in the same critical section.
// Re-resolving the same source and destination is idempotent. Overwrite
// never replaces a file another source produced in this run; that case is
// reported as ActionFail.
func (r *Registry) Resolve(source, dest string, policy config.CollisionPolicy) (Decision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if owner, ok := r.owners[dest]; ok && owner != source && policy == config.CollisionOverwrite {
		return Decision{Action: ActionFail, Path: dest, Reason: "claimed by " + owner}, nil
	}

	d, err := Resolve(dest, policy, func(path string) (bool, error) {
		if owner, ok := r.owners[path]; ok {
			return owner != source, nil
		}
		return r.probe(path)
	})
	if err != nil {
		return d, err
	}
	if d.Action == ActionProceed || d.Action == ActionRename {
		r.owners[d.Path] = source
	}
	return d, nil
}

// Owner returns the source that claimed path, if any.
func (r *Registry) Owner(path string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner, ok := r.owners[path]
	return owner, ok
}

package builds

import "sync"

// inFlight tracks image identities with a running build, so two pipeline
// runs can never share one working area.
type inFlight struct {
	mu     sync.Mutex
	active map[string]bool
}

func newInFlight() *inFlight {
	return &inFlight{active: make(map[string]bool)}
}

// acquire claims the identity, returning false when a build already owns it.
func (f *inFlight) acquire(identity string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.active[identity] {
		return false
	}
	f.active[identity] = true
	return true
}

func (f *inFlight) release(identity string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.active, identity)
}

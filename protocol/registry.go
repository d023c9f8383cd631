package protocol

import "sort"

type (
	// subprotocol is a registry entry: a named sub-instance owned by a BaseInstance.
	subprotocol struct {
		name     string
		instance Instance
		started  bool // NextMessage has been called at least once
	}

	// registry holds the sub-instances of a BaseInstance. Newly scheduled entries are kept
	// apart from the running ones until commit is called, so that round logic can schedule
	// sub-protocols while the running set is being advanced.
	registry struct {
		running   map[string]*subprotocol
		scheduled []*subprotocol
	}
)

func newRegistry() registry {
	return registry{running: make(map[string]*subprotocol)}
}

func (r *registry) has(name string) bool {
	if _, ok := r.running[name]; ok {
		return true
	}
	for _, s := range r.scheduled {
		if s.name == name {
			return true
		}
	}
	return false
}

func (r *registry) schedule(name string, instance Instance) bool {
	if r.has(name) {
		return false
	}
	r.scheduled = append(r.scheduled, &subprotocol{name: name, instance: instance})
	return true
}

// runningEntries returns the running entries sorted by name.
func (r *registry) runningEntries() []*subprotocol {
	entries := make([]*subprotocol, 0, len(r.running))
	for _, s := range r.running {
		entries = append(entries, s)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })
	return entries
}

// commit moves the scheduled entries into the running set and returns them in the order
// in which they were scheduled.
func (r *registry) commit() []*subprotocol {
	committed := r.scheduled
	r.scheduled = nil
	for _, s := range committed {
		r.running[s.name] = s
	}
	return committed
}

// dropTerminated removes the running entries whose instance has terminated.
func (r *registry) dropTerminated() {
	for name, s := range r.running {
		if s.instance.HasTerminated() {
			delete(r.running, name)
		}
	}
}

func (r *registry) empty() bool {
	return len(r.running) == 0 && len(r.scheduled) == 0
}

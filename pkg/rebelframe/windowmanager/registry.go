package windowmanager

// StackRegistry maps a stack name to the screens recorded under it, oldest
// first. Entries are created on first use and live until the registry is
// cleared; emptying an entry keeps it.
type StackRegistry struct {
	stacks map[string][]*Screen
	names  []string
}

func NewStackRegistry() *StackRegistry {
	return &StackRegistry{
		stacks: make(map[string][]*Screen),
	}
}

// Add appends s to the named stack, creating the entry if needed. Adding a
// screen twice to the same stack is ignored.
func (r *StackRegistry) Add(name string, s *Screen) {
	entry, ok := r.stacks[name]
	if !ok {
		r.names = append(r.names, name)
	}
	for _, existing := range entry {
		if existing == s {
			return
		}
	}
	r.stacks[name] = append(entry, s)
}

// Screens returns a copy of the named stack, oldest first.
func (r *StackRegistry) Screens(name string) []*Screen {
	entry := r.stacks[name]
	out := make([]*Screen, len(entry))
	copy(out, entry)
	return out
}

// Take returns the named stack and leaves the entry present but empty.
func (r *StackRegistry) Take(name string) []*Screen {
	entry, ok := r.stacks[name]
	if !ok {
		return nil
	}
	r.stacks[name] = entry[:0:0]
	return entry
}

// Remove drops s from every stack it is recorded in.
func (r *StackRegistry) Remove(s *Screen) {
	for name, entry := range r.stacks {
		for i, existing := range entry {
			if existing == s {
				r.stacks[name] = append(entry[:i:i], entry[i+1:]...)
				break
			}
		}
	}
}

func (r *StackRegistry) Has(name string) bool {
	_, ok := r.stacks[name]
	return ok
}

func (r *StackRegistry) Len(name string) int {
	return len(r.stacks[name])
}

// Names returns stack names in creation order.
func (r *StackRegistry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Clear removes every entry.
func (r *StackRegistry) Clear() {
	r.stacks = make(map[string][]*Screen)
	r.names = nil
}

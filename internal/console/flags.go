package console

import (
	"fmt"
	"math/bits"
	"sync"
)

// Flag is a bitset of registered flags. A value created by CreateFlag has
// exactly one bit set.
type Flag uint64

// MaxFlags is the number of distinct flags a registry can hold.
const MaxFlags = 64

// FlagArchive marks entries written by the archive writer.
const FlagArchive Flag = 1 << 0

// GateFunc is called before an entry carrying the flag is changed or run.
// Returning false aborts the operation.
type GateFunc func(name string, args []string, full string) bool

type flagDesc struct {
	name string
	gate GateFunc
}

// FlagRegistry maps flag bits to names and gate callbacks.
type FlagRegistry struct {
	mu     sync.RWMutex
	descs  []flagDesc
	byName map[string]Flag
}

// NewFlagRegistry returns a registry holding the built-in ARCHIVE flag.
func NewFlagRegistry() *FlagRegistry {
	r := &FlagRegistry{byName: make(map[string]Flag)}
	r.descs = append(r.descs, flagDesc{name: "ARCHIVE"})
	r.byName["ARCHIVE"] = FlagArchive
	return r
}

// Create returns the flag registered under name, allocating the next bit
// when the name is new.
func (r *FlagRegistry) Create(name string) (Flag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.byName[name]; ok {
		return f, nil
	}
	if len(r.descs) >= MaxFlags {
		return 0, fmt.Errorf("%w: cannot create %q", ErrFlagsExhausted, name)
	}

	f := Flag(1) << len(r.descs)
	r.descs = append(r.descs, flagDesc{name: name})
	r.byName[name] = f
	return f, nil
}

// ByName looks a flag up by name.
func (r *FlagRegistry) ByName(name string) (Flag, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.byName[name]
	return f, ok
}

// Name returns the name of a single-bit flag.
func (r *FlagRegistry) Name(f Flag) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.slotLocked(f)
	if !ok {
		return "", false
	}
	return r.descs[i].name, true
}

// SetCallback installs the gate for a single-bit flag, replacing any
// previous one.
func (r *FlagRegistry) SetCallback(f Flag, gate GateFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.slotLocked(f)
	if !ok {
		return fmt.Errorf("%w: flag %#x", ErrNotFound, uint64(f))
	}
	r.descs[i].gate = gate
	return nil
}

// Callback returns the gate of a single-bit flag, nil when none is set.
func (r *FlagRegistry) Callback(f Flag) GateFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.slotLocked(f)
	if !ok {
		return nil
	}
	return r.descs[i].gate
}

// Names returns the names of every registered bit in set, lowest bit first.
func (r *FlagRegistry) Names(set Flag) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for i, d := range r.descs {
		if set&(Flag(1)<<i) != 0 {
			names = append(names, d.name)
		}
	}
	return names
}

// Count returns the number of allocated flags.
func (r *FlagRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.descs)
}

// Allocated returns the set of every allocated flag bit.
func (r *FlagRegistry) Allocated() Flag {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Flag(1)<<len(r.descs) - 1
}

// gates returns the callbacks of every bit in set, lowest bit first.
func (r *FlagRegistry) gates(set Flag) []GateFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []GateFunc
	for rest := set; rest != 0; rest &= rest - 1 {
		i := bits.TrailingZeros64(uint64(rest))
		if i < len(r.descs) && r.descs[i].gate != nil {
			out = append(out, r.descs[i].gate)
		}
	}
	return out
}

func (r *FlagRegistry) slotLocked(f Flag) (int, bool) {
	if bits.OnesCount64(uint64(f)) != 1 {
		return 0, false
	}
	i := bits.TrailingZeros64(uint64(f))
	if i >= len(r.descs) {
		return 0, false
	}
	return i, true
}

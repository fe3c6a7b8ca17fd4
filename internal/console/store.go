package console

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// CommandFunc runs a command. full is the whole command text.
type CommandFunc func(args []string, full string)

// DropdownFunc returns completion candidates for a command's arguments.
type DropdownFunc func(args []string, full string) []string

// ChangeFunc observes a variable change before it is stored. It may rewrite
// *next; the rewritten value is what gets committed.
type ChangeFunc func(prev Value, next *Value)

// Entry is a registered command or variable. Entries are allocated one by
// one and never move, so a pointer stays valid for the life of the Console.
type Entry struct {
	owner *Console
	index int
	kind  Kind
	flags Flag
	cmd   *command
	cvar  *variable
}

type command struct {
	fn       CommandFunc
	dropdown DropdownFunc
}

type variable struct {
	value  Value
	def    Value
	lo, hi Value
	change ChangeFunc
}

func (e *Entry) Kind() Kind   { return e.kind }
func (e *Entry) Flags() Flag  { return e.flags }
func (e *Entry) Index() int   { return e.index }
func (e *Entry) IsVar() bool  { return e.cvar != nil }
func (e *Entry) IsCommand() bool {
	return e.cmd != nil
}

// Name returns the registered name.
func (e *Entry) Name() string {
	e.owner.mu.RLock()
	defer e.owner.mu.RUnlock()
	return e.owner.names[e.index]
}

// Description returns the help text given at registration.
func (e *Entry) Description() string {
	e.owner.mu.RLock()
	defer e.owner.mu.RUnlock()
	return e.owner.descs[e.index]
}

// Value returns the current value, the zero Value for commands.
func (e *Entry) Value() Value {
	if e.cvar == nil {
		return Value{}
	}
	e.owner.mu.RLock()
	defer e.owner.mu.RUnlock()
	return e.cvar.value
}

// Default returns the registered default.
func (e *Entry) Default() Value {
	if e.cvar == nil {
		return Value{}
	}
	return e.cvar.def
}

// Range returns the clamp bounds of range variables.
func (e *Entry) Range() (lo, hi Value, ok bool) {
	if e.cvar == nil || !e.kind.IsRange() {
		return Value{}, Value{}, false
	}
	return e.cvar.lo, e.cvar.hi, true
}

// HasDropdown reports whether the command offers argument completion.
func (e *Entry) HasDropdown() bool {
	return e.cmd != nil && e.cmd.dropdown != nil
}

// RegisterOption customizes a registration.
type RegisterOption func(*registration)

type registration struct {
	flags    Flag
	desc     string
	change   ChangeFunc
	dropdown DropdownFunc
	lo, hi   Value
	ranged   bool
}

// WithFlags adds flags to the entry.
func WithFlags(f Flag) RegisterOption {
	return func(r *registration) { r.flags |= f }
}

// WithDescription sets the help text.
func WithDescription(desc string) RegisterOption {
	return func(r *registration) { r.desc = desc }
}

// OnChange sets the change function of a variable.
func OnChange(fn ChangeFunc) RegisterOption {
	return func(r *registration) { r.change = fn }
}

// WithDropdown sets the argument completion of a command.
func WithDropdown(fn DropdownFunc) RegisterOption {
	return func(r *registration) { r.dropdown = fn }
}

// WithRange sets the bounds of a RangeInt or RangeFloat variable.
func WithRange(lo, hi Value) RegisterOption {
	return func(r *registration) {
		r.lo, r.hi, r.ranged = lo, hi, true
	}
}

func validName(name string) error {
	if name == "" || strings.ContainsAny(name, " \t\r\n;\"'") {
		return fmt.Errorf("%w: invalid name %q", ErrInvalidArgs, name)
	}
	return nil
}

// RegisterCommand adds a command. Registering an existing name fails.
func (c *Console) RegisterCommand(name string, fn CommandFunc, opts ...RegisterOption) error {
	if fn == nil {
		return fmt.Errorf("%w: command %q has no function", ErrInvalidArgs, name)
	}
	_, err := c.register(name, KindCommand, Value{}, fn, opts)
	return err
}

// RegisterVar adds a variable of kind k. Registering an existing variable of
// the same kind returns the existing entry untouched; any other clash fails
// with ErrDuplicate.
func (c *Console) RegisterVar(name string, k Kind, def Value, opts ...RegisterOption) (*Entry, error) {
	if !k.IsVar() {
		return nil, fmt.Errorf("%w: %s is not a variable kind", ErrTypeMismatch, k)
	}
	if !def.fits(k) {
		return nil, fmt.Errorf("%w: default of %q is %s, expected %s", ErrTypeMismatch, name, def.kind, k)
	}
	return c.register(name, k, def, nil, opts)
}

func (c *Console) register(name string, k Kind, def Value, fn CommandFunc, opts []RegisterOption) (*Entry, error) {
	if err := validName(name); err != nil {
		return nil, err
	}

	var reg registration
	for _, opt := range opts {
		opt(&reg)
	}
	if unknown := reg.flags &^ c.flags.Allocated(); unknown != 0 {
		c.logger.Warn("console: %q given unallocated flag bits %#x, dropped", name, uint64(unknown))
		reg.flags &^= unknown
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if i, ok := c.index[name]; ok {
		existing := c.entries[i]
		if k == KindCommand || existing.kind != k {
			c.logger.Error("console: %q already registered as %s, cannot register as %s", name, existing.kind, k)
			return nil, fmt.Errorf("%w: %q is a %s", ErrDuplicate, name, existing.kind)
		}
		c.logger.Debug("console: %q registered again, reusing entry", name)
		return existing, nil
	}

	e := &Entry{
		owner: c,
		index: len(c.entries),
		kind:  k,
		flags: reg.flags | c.registerFlags,
	}

	if k == KindCommand {
		e.cmd = &command{fn: fn, dropdown: reg.dropdown}
	} else {
		v := &variable{def: def, change: reg.change}
		if k.IsRange() {
			lo, hi, err := c.rangeBounds(name, k, reg)
			if err != nil {
				return nil, err
			}
			v.lo, v.hi = lo, hi
			if clamped, changed := clampValue(def, lo, hi); changed {
				c.logger.Warn("console: default %s of %q outside %s - %s, clamped to %s", def, name, lo, hi, clamped)
				v.def = clamped
			}
		}
		v.value = v.def
		e.cvar = v
	}

	c.entries = append(c.entries, e)
	c.names = append(c.names, name)
	c.descs = append(c.descs, reg.desc)
	c.index[name] = e.index
	return e, nil
}

func (c *Console) rangeBounds(name string, k Kind, reg registration) (Value, Value, error) {
	if !reg.ranged || !reg.lo.fits(k) || !reg.hi.fits(k) {
		return Value{}, Value{}, fmt.Errorf("%w: %s %q needs %s bounds", ErrTypeMismatch, k, name, k.Base())
	}
	lo, hi := reg.lo, reg.hi
	if (k == KindRangeInt && lo.i > hi.i) || (k == KindRangeFloat && lo.f > hi.f) {
		c.logger.Warn("console: range of %q given as %s - %s, swapping", name, lo, hi)
		lo, hi = hi, lo
	}
	return lo, hi, nil
}

// GetEntry looks an entry up by exact name.
func (c *Console) GetEntry(name string) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return c.entries[i], true
}

// GetEntryByIndex returns the entry registered at position i.
func (c *Console) GetEntryByIndex(i int) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i < 0 || i >= len(c.entries) {
		return nil, false
	}
	return c.entries[i], true
}

// EntryCount returns the number of registered entries.
func (c *Console) EntryCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Entries returns every entry in registration order.
func (c *Console) Entries() []*Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// lookup resolves a name typed by a user: exact match first, then the first
// entry whose name matches ignoring case.
func (c *Console) lookup(name string) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i, ok := c.index[name]; ok {
		return c.entries[i], true
	}
	for i, n := range c.names {
		if strings.EqualFold(n, name) {
			return c.entries[i], true
		}
	}
	return nil, false
}

// ValueString returns the canonical text of a variable's value.
func (c *Console) ValueString(name string) (string, error) {
	e, ok := c.GetEntry(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if !e.IsVar() {
		return "", fmt.Errorf("%w: %q is a command", ErrTypeMismatch, name)
	}
	return e.Value().String(), nil
}

// Var is a typed handle to a registered variable. Reading through the
// handle always sees the live value.
type Var[T any] struct {
	entry *Entry
	get   func(Value) T
	put   func(T) Value
}

// Get returns the current value.
func (v Var[T]) Get() T {
	return v.get(v.entry.Value())
}

// Set changes the value through the regular dispatch protocol.
func (v Var[T]) Set(x T) Result {
	return v.entry.owner.SetValue(v.entry.Name(), v.put(x))
}

// Entry returns the underlying entry.
func (v Var[T]) Entry() *Entry {
	return v.entry
}

// Name returns the registered name.
func (v Var[T]) Name() string {
	return v.entry.Name()
}

// Valid reports whether the handle refers to an entry.
func (v Var[T]) Valid() bool {
	return v.entry != nil
}

func registerTyped[T any](c *Console, name string, k Kind, def T, put func(T) Value, get func(Value) T, opts []RegisterOption) (Var[T], error) {
	e, err := c.RegisterVar(name, k, put(def), opts...)
	if err != nil {
		return Var[T]{}, err
	}
	return Var[T]{entry: e, get: get, put: put}, nil
}

func (c *Console) RegisterBool(name string, def bool, opts ...RegisterOption) (Var[bool], error) {
	return registerTyped(c, name, KindBool, def, BoolValue, Value.Bool, opts)
}

func (c *Console) RegisterInt(name string, def int, opts ...RegisterOption) (Var[int], error) {
	return registerTyped(c, name, KindInt, def, IntValue, Value.Int, opts)
}

func (c *Console) RegisterFloat(name string, def float32, opts ...RegisterOption) (Var[float32], error) {
	return registerTyped(c, name, KindFloat, def, FloatValue, Value.Float, opts)
}

func (c *Console) RegisterString(name string, def string, opts ...RegisterOption) (Var[string], error) {
	return registerTyped(c, name, KindString, def, StringValue, Value.Text, opts)
}

func (c *Console) RegisterRangeInt(name string, def, lo, hi int, opts ...RegisterOption) (Var[int], error) {
	opts = append([]RegisterOption{WithRange(IntValue(lo), IntValue(hi))}, opts...)
	return registerTyped(c, name, KindRangeInt, def, IntValue, Value.Int, opts)
}

func (c *Console) RegisterRangeFloat(name string, def, lo, hi float32, opts ...RegisterOption) (Var[float32], error) {
	opts = append([]RegisterOption{WithRange(FloatValue(lo), FloatValue(hi))}, opts...)
	return registerTyped(c, name, KindRangeFloat, def, FloatValue, Value.Float, opts)
}

func (c *Console) RegisterVec2(name string, def mgl32.Vec2, opts ...RegisterOption) (Var[mgl32.Vec2], error) {
	return registerTyped(c, name, KindVec2, def, Vec2Value, Value.Vec2, opts)
}

func (c *Console) RegisterVec3(name string, def mgl32.Vec3, opts ...RegisterOption) (Var[mgl32.Vec3], error) {
	return registerTyped(c, name, KindVec3, def, Vec3Value, Value.Vec3, opts)
}

func (c *Console) RegisterVec4(name string, def mgl32.Vec4, opts ...RegisterOption) (Var[mgl32.Vec4], error) {
	return registerTyped(c, name, KindVec4, def, Vec4Value, Value.Vec4, opts)
}

package layout

// Key is a typed Context key. The zero Key is not usable; create keys with
// NewKey.
type Key[T any] struct {
	name string
	def  T
}

// NewKey returns a key with the given name and default value.
// Keys are compared by name, so every key needs a unique name.
func NewKey[T any](name string, def T) Key[T] {
	return Key[T]{name: name, def: def}
}

// Name returns the key name.
func (k Key[T]) Name() string { return k.name }

// Default returns the value Get reports when the key is unset.
func (k Key[T]) Default() T { return k.def }

// Built-in keys.
var (
	// KeyColumns is the number of columns of the tab list grid.
	KeyColumns = NewKey("columns", 4)

	// KeyTabSize is the number of slots of the tab list grid.
	KeyTabSize = NewKey("tab_size", 80)
)

// Context is a typed configuration bag shared by all nodes of one Tree.
//
// Context is read during ticks and may only be mutated between ticks by the
// goroutine that owns the tree.
type Context struct {
	values map[string]any
}

// NewContext creates an empty context. Every key reports its default.
func NewContext() *Context {
	return &Context{values: make(map[string]any)}
}

// Get returns the value stored under k, or k's default.
func Get[T any](c *Context, k Key[T]) T {
	if c == nil {
		return k.def
	}
	if v, ok := c.values[k.name].(T); ok {
		return v
	}
	return k.def
}

// Set stores v under k.
func Set[T any](c *Context, k Key[T], v T) {
	c.values[k.name] = v
}

// Delete removes k so that Get reports its default again.
func Delete[T any](c *Context, k Key[T]) {
	delete(c.values, k.name)
}

// Clone returns a shallow copy of c.
func (c *Context) Clone() *Context {
	out := NewContext()
	for k, v := range c.values {
		out.values[k] = v
	}
	return out
}

// columns returns the column count, never less than 1.
func (c *Context) columns() int {
	if n := Get(c, KeyColumns); n > 0 {
		return n
	}
	return 1
}

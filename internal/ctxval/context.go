package ctxval

// Context is the hierarchical key/value map shared by all processors for
// one build (spec §3). Its root is always a Table; Context exists mainly
// to give that root a name and a handful of convenience accessors used
// throughout the orchestrator and template engine.
type Context struct {
	root Value
}

// New returns an empty Context.
func New() *Context {
	return &Context{root: NewTable()}
}

// FromValue wraps an existing Table-kind Value as a Context. If v is not a
// table, the Context starts from an empty Table instead, since the outer
// context is always a Table per spec §3.
func FromValue(v Value) *Context {
	if v.Kind != KindTable {
		v = NewTable()
	}
	return &Context{root: v}
}

// Root returns the underlying Table-kind Value.
func (c *Context) Root() Value { return c.root }

// Get resolves a dotted key against the context, per spec §4.3.
func (c *Context) Get(key string) (Value, bool) {
	return Get(c.root, key)
}

// GetText resolves a dotted key and stringifies the result; a missing key
// resolves to the empty string rather than erroring (spec §8, "Missing
// keys render as empty strings; they do not raise").
func (c *Context) GetText(key string) string {
	v, ok := c.Get(key)
	if !ok {
		return ""
	}
	return v.Stringify()
}

// Set writes a value at a dotted key, creating intermediate tables as
// needed, and returns the resulting Context (the receiver is not mutated
// in place; the returned Context shares unaffected subtrees structurally).
func (c *Context) Set(key string, v Value) *Context {
	next, err := Set(c.root, key, v)
	if err != nil {
		return c
	}
	return &Context{root: next}
}

// Clone returns a deep copy of c so that frontmatter and pattern variables
// applied to one asset's context clone never leak into another's (spec
// §3: "Context is cloned per asset before processor execution").
func (c *Context) Clone() *Context {
	return &Context{root: c.root.Clone()}
}

// Merge deep-merges other on top of c (other's keys win) and returns a new
// Context, used by the template processor to layer the shared context, the
// asset's own context and its frontmatter. (The default/profile context
// composition happens earlier, in internal/config, on decoded TOML.)
func (c *Context) Merge(other *Context) *Context {
	return &Context{root: Merge(c.root, other.root)}
}

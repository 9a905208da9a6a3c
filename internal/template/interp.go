package template

import (
	"fmt"
	"strings"

	"github.com/aerstatic/aer/internal/asset"
	"github.com/aerstatic/aer/internal/ctxval"
)

// DeferredError is returned by Interpreter.Render when a `{~ for x in
// assets "P"}` block references per-directory metadata that hasn't been
// published yet (spec §4.3); the template processor turns this into a
// Deferred processor result rather than a recoverable error.
type DeferredError struct{ Reason string }

func (e *DeferredError) Error() string { return e.Reason }

// Interpreter renders a parsed node tree against a Context, resolving
// `use` directives against a shared part cache.
type Interpreter struct {
	Parts    *asset.PartCache
	MaxDepth int
}

// NewInterpreter returns an Interpreter with the default use-recursion cap.
func NewInterpreter(parts *asset.PartCache) *Interpreter {
	return &Interpreter{Parts: parts, MaxDepth: 16}
}

// Render renders nodes against ctx, returning the accumulated output text.
func (in *Interpreter) Render(nodes []Node, ctx *ctxval.Context) (string, error) {
	return in.render(nodes, ctx, 0)
}

func (in *Interpreter) render(nodes []Node, ctx *ctxval.Context, depth int) (string, error) {
	var buf strings.Builder
	for _, n := range nodes {
		switch node := n.(type) {
		case TextNode:
			buf.WriteString(node.Value)

		case *GetNode:
			buf.WriteString(in.renderGet(node, ctx))

		case *IfNode:
			ok, err := in.evalIf(node, ctx)
			if err != nil {
				return "", err
			}
			if ok {
				s, err := in.render(node.Body, ctx, depth)
				if err != nil {
					return "", err
				}
				buf.WriteString(s)
			}

		case *ForListNode:
			v, ok := ctx.Get(node.Key)
			if !ok || !v.IsList() {
				continue
			}
			for _, elem := range v.AsList() {
				child := ctx.Set(node.Var, elem)
				s, err := in.render(node.Body, child, depth)
				if err != nil {
					return "", err
				}
				buf.WriteString(s)
			}

		case *ForTableNode:
			v, ok := ctx.Get(node.Key)
			if !ok || !v.IsTable() {
				continue
			}
			table := v.AsTable()
			for _, k := range v.SortedKeys() {
				child := ctx.Set(node.KeyVar, ctxval.Text(k)).Set(node.ValVar, table[k])
				s, err := in.render(node.Body, child, depth)
				if err != nil {
					return "", err
				}
				buf.WriteString(s)
			}

		case *ForAssetsNode:
			key := "_assets:" + node.Path
			v, ok := ctx.Get(key)
			if !ok {
				return "", &DeferredError{Reason: fmt.Sprintf("assets metadata for %q not yet published", node.Path)}
			}
			if !v.IsList() {
				continue
			}
			for _, elem := range v.AsList() {
				child := ctx.Set(node.Var, elem)
				s, err := in.render(node.Body, child, depth)
				if err != nil {
					return "", err
				}
				buf.WriteString(s)
			}

		case *UseNode:
			s, err := in.renderUse(node, ctx, depth)
			if err != nil {
				return "", err
			}
			buf.WriteString(s)
		}
	}
	return buf.String(), nil
}

func (in *Interpreter) renderGet(node *GetNode, ctx *ctxval.Context) string {
	for _, op := range node.Operands {
		var s string
		if op.Literal {
			s = op.Value
		} else if v, ok := ctx.Get(op.Value); ok {
			s = v.Stringify()
		}
		if s != "" {
			return s
		}
	}
	return ""
}

func (in *Interpreter) evalIf(node *IfNode, ctx *ctxval.Context) (bool, error) {
	v, ok := ctx.Get(node.Key)
	if node.HasCompare {
		text := ""
		if ok {
			text = v.Stringify()
		}
		eq := text == node.CompareValue
		if node.CompareNegate {
			return !eq, nil
		}
		return eq, nil
	}
	truthy := ok && v.Truthy()
	if node.Negate {
		return !truthy, nil
	}
	return truthy, nil
}

func (in *Interpreter) renderUse(node *UseNode, ctx *ctxval.Context, depth int) (string, error) {
	if depth+1 >= in.MaxDepth {
		return "", fmt.Errorf("template: use %q exceeds recursion depth %d", node.Path, in.MaxDepth)
	}
	if in.Parts == nil {
		return "", fmt.Errorf("template: no part cache configured")
	}
	part, ok := in.Parts.Get(node.Path)
	if !ok {
		return "", fmt.Errorf("template: part %q not found", node.Path)
	}

	partCtx := ctxval.FromValue(part.Frontmatter.Clone())
	for _, b := range node.Bindings {
		var v ctxval.Value
		switch {
		case b.Literal:
			v = ctxval.Text(b.Value)
		default:
			resolved, ok := ctx.Get(b.Value)
			if ok {
				v = resolved
			} else {
				v = ctxval.Text("")
			}
		}
		partCtx = partCtx.Set(b.Name, v)
	}

	nodes, err := Parse(string(part.Body))
	if err != nil {
		return "", fmt.Errorf("template: part %q: %w", node.Path, err)
	}
	return in.render(nodes, partCtx, depth+1)
}

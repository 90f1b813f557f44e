package djlex

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter selects condition tokens with an expr-lang predicate, for example
//
//	kind == "Variable" && line > 10
//	value && text startsWith "request."
type Filter struct {
	src  string
	prog *vm.Program
}

// CompileFilter compiles a predicate over the fields of Token. An empty
// predicate returns a nil *Filter, which matches every token.
func CompileFilter(src string) (*Filter, error) {
	if src == "" {
		return nil, nil
	}
	prog, err := expr.Compile(src, expr.Env(Token{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", src, err)
	}
	return &Filter{src: src, prog: prog}, nil
}

func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.src
}

// Match reports whether tok satisfies the filter.
func (f *Filter) Match(tok Token) (bool, error) {
	if f == nil {
		return true, nil
	}
	out, err := expr.Run(f.prog, tok)
	if err != nil {
		return false, fmt.Errorf("run filter %q: %w", f.src, err)
	}
	return out.(bool), nil
}

// Apply returns a copy of r whose tags keep only the condition tokens
// matching f. Diagnostics are kept as they are.
func (f *Filter) Apply(r *Report) (*Report, error) {
	if f == nil {
		return r, nil
	}
	out := *r
	out.Tags = make([]TagReport, len(r.Tags))
	for i, t := range r.Tags {
		t.Condition = nil
		for _, tok := range r.Tags[i].Condition {
			ok, err := f.Match(tok)
			if err != nil {
				return nil, err
			}
			if ok {
				t.Condition = append(t.Condition, tok)
			}
		}
		out.Tags[i] = t
	}
	return &out, nil
}

// Package query inspects state documents with JMESPath selections and
// expr-lang boolean filters.
//
// Both operate on a View of the document: payload fields are decoded from
// their JSON strings to native values, the nested cached document is viewed
// recursively, and a "lineage" list names the variant and its ancestors, so
// a filter can match every pending-like state:
//
//	f, _ := query.NewFilter(`"Pending" in lineage && (run_count ?? 0) > 2`)
//	ok, _ := f.Match(doc)
package query

import (
	"errors"
	"fmt"
	"strings"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/tailored-agentic-units/statewire/payload"
	"github.com/tailored-agentic-units/statewire/serialization"
	"github.com/tailored-agentic-units/statewire/state"
)

// View keys added to the document fields. KeyTag repeats the type tag
// under a name that does not collide with expr's type() builtin.
const (
	KeyTag     = "tag"
	KeyLineage = "lineage"
)

var (
	ErrInvalidExpression = errors.New("invalid expression")
	ErrNotBoolean        = errors.New("filter did not produce a boolean")
)

var payloadKeys = []string{
	serialization.KeyResult,
	serialization.KeyCachedInputs,
	serialization.KeyCachedResult,
	serialization.KeyCachedParameters,
}

// View returns doc as plain data for querying. Numbers become float64.
// Timestamps stay as their RFC 3339 strings, which sort chronologically.
func View(doc serialization.Document) (map[string]any, error) {
	out := make(map[string]any, len(doc)+2)
	for k, v := range doc {
		out[k] = normalize(v)
	}

	for _, key := range payloadKeys {
		raw, ok := doc[key].(string)
		if !ok {
			continue
		}
		v, err := payload.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		out[key] = normalize(payload.ToAny(v))
	}

	if nested, ok := doc[serialization.KeyCached].(map[string]any); ok {
		view, err := View(serialization.Document(nested))
		if err != nil {
			return nil, fmt.Errorf("%s.%w", serialization.KeyCached, err)
		}
		out[serialization.KeyCached] = view
	} else if nested, ok := doc[serialization.KeyCached].(serialization.Document); ok {
		view, err := View(nested)
		if err != nil {
			return nil, fmt.Errorf("%s.%w", serialization.KeyCached, err)
		}
		out[serialization.KeyCached] = view
	}

	out[KeyTag] = doc.Tag()
	out[KeyLineage] = lineage(state.Kind(doc.Tag()))
	return out, nil
}

func lineage(kind state.Kind) []any {
	out := []any{}
	for k := kind; k.Valid(); k = k.Parent() {
		out = append(out, string(k))
	}
	return out
}

// normalize converts the numeric and map forms wire codecs produce into
// the float64 and map[string]any forms both query engines expect.
func normalize(v any) any {
	switch tv := v.(type) {
	case serialization.Document:
		return normalizeMap(tv)
	case map[string]any:
		return normalizeMap(tv)
	case map[any]any:
		m := make(map[string]any, len(tv))
		for k, item := range tv {
			m[fmt.Sprint(k)] = normalize(item)
		}
		return m
	case []any:
		out := make([]any, len(tv))
		for i, item := range tv {
			out[i] = normalize(item)
		}
		return out
	default:
		if f, ok := toFloat(v); ok {
			return f
		}
		return v
	}
}

func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, item := range m {
		out[k] = normalize(item)
	}
	return out
}

// Select evaluates a JMESPath expression against the View of doc.
func Select(doc serialization.Document, expression string) (any, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, fmt.Errorf("%w: empty JMESPath expression", ErrInvalidExpression)
	}
	if _, err := jmespath.Compile(expression); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}

	view, err := View(doc)
	if err != nil {
		return nil, err
	}
	return jmespath.Search(expression, view)
}

// Filter is a compiled expr-lang predicate over document views.
type Filter struct {
	expression string
	program    *exprvm.Program
}

// NewFilter compiles expression. Fields a document lacks evaluate to nil.
func NewFilter(expression string) (*Filter, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, fmt.Errorf("%w: empty filter", ErrInvalidExpression)
	}

	program, err := exprlang.Compile(expression,
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
		exprlang.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}
	return &Filter{expression: expression, program: program}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	return f.expression
}

// Match reports whether doc satisfies the filter.
func (f *Filter) Match(doc serialization.Document) (bool, error) {
	view, err := View(doc)
	if err != nil {
		return false, err
	}

	result, err := exprlang.Run(f.program, view)
	if err != nil {
		return false, fmt.Errorf("evaluate %q: %w", f.expression, err)
	}
	ok, isBool := result.(bool)
	if !isBool {
		return false, fmt.Errorf("%w: %T", ErrNotBoolean, result)
	}
	return ok, nil
}

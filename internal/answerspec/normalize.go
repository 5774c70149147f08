package answerspec

import (
	"encoding/json"

	"github.com/abhisek/trilogic/internal/argraph"
)

// NormalizeLinks canonicalizes a stored Step 2 or Step 4 expectation into
// a variant list. See normalizeVariants for the accepted shapes.
func NormalizeLinks(data json.RawMessage) []Variant[argraph.Link] {
	return normalizeVariants(data, "links", decodeLink)
}

// NormalizePremises canonicalizes a stored Step 5 expectation.
func NormalizePremises(data json.RawMessage) []Variant[argraph.PremisePair] {
	return normalizeVariants(data, "premises", decodePair)
}

// normalizeVariants accepts:
//
//   - a flat list of items, which becomes a single variant
//   - a list of lists, one variant per inner list
//   - an object whose wrapKey field holds either of the above
//
// Variant order is preserved. Any other shape, including an empty list or a
// list mixing items and lists, yields nil.
func normalizeVariants[T any](data json.RawMessage, wrapKey string, decode func(map[string]any) (T, bool)) []Variant[T] {
	if len(data) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	if obj, ok := v.(map[string]any); ok {
		inner, ok := obj[wrapKey]
		if !ok {
			return nil
		}
		v = inner
	}
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil
	}

	switch shapeOf(list) {
	case shapeFlat:
		items, ok := decodeItems(list, decode)
		if !ok {
			return []Variant[T]{{Malformed: true}}
		}
		return []Variant[T]{{Items: items}}
	case shapeNested:
		out := make([]Variant[T], 0, len(list))
		for _, el := range list {
			inner := el.([]any)
			items, ok := decodeItems(inner, decode)
			if !ok || len(items) == 0 {
				out = append(out, Variant[T]{Malformed: true})
				continue
			}
			out = append(out, Variant[T]{Items: items})
		}
		return out
	default:
		return nil
	}
}

type listShape int

const (
	shapeUnknown listShape = iota
	shapeFlat
	shapeNested
)

func shapeOf(list []any) listShape {
	var objects, lists int
	for _, el := range list {
		switch el.(type) {
		case map[string]any:
			objects++
		case []any:
			lists++
		}
	}
	switch {
	case objects == len(list):
		return shapeFlat
	case lists == len(list):
		return shapeNested
	default:
		return shapeUnknown
	}
}

func decodeItems[T any](list []any, decode func(map[string]any) (T, bool)) ([]T, bool) {
	items := make([]T, 0, len(list))
	for _, el := range list {
		m, ok := el.(map[string]any)
		if !ok {
			return nil, false
		}
		item, ok := decode(m)
		if !ok {
			return nil, false
		}
		items = append(items, item)
	}
	return items, true
}

// decodeLink reads from/to, falling back to the older source/target keys.
// A missing active flag means the link is active.
func decodeLink(m map[string]any) (argraph.Link, bool) {
	from := firstString(m, "from", "source")
	to := firstString(m, "to", "target")
	if from == "" || to == "" {
		return argraph.Link{}, false
	}
	link := argraph.Link{From: from, To: to}
	if raw, present := m["active"]; present && raw != nil {
		active, ok := raw.(bool)
		if !ok {
			return argraph.Link{}, false
		}
		link = link.WithActive(active)
	}
	return link, true
}

func decodePair(m map[string]any) (argraph.PremisePair, bool) {
	a, _ := m["antecedent"].(string)
	c, _ := m["consequent"].(string)
	if a == "" || c == "" {
		return argraph.PremisePair{}, false
	}
	return argraph.PremisePair{Antecedent: a, Consequent: c}, true
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

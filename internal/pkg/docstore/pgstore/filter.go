package pgstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/squirrel"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/yigit/registrar/internal/pkg/docstore"
)

// leaf is one scalar comparison inside a filter value
type leaf struct {
	rel   string
	value interface{}
}

// compileFilter turns an equality filter into SQL/JSON path predicates over
// the jsonb expression target. Each filter field becomes one jsonb_path_exists
// call; an embedded document value is matched field by field against the same
// array element.
func compileFilter(target string, f docstore.Filter) (squirrel.Sqlizer, error) {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	conds := squirrel.And{}
	for _, field := range fields {
		path, vars, err := jsonPathFor(field, f[field])
		if err != nil {
			return nil, err
		}
		conds = append(conds, squirrel.Expr(
			fmt.Sprintf("jsonb_path_exists(%s, CAST(? AS text)::jsonpath, CAST(? AS text)::jsonb)", target),
			path, vars,
		))
	}
	return conds, nil
}

// jsonPathFor builds the jsonpath predicate and its variables for one field
func jsonPathFor(field string, value interface{}) (string, string, error) {
	encoded, err := extJSONValue(value)
	if err != nil {
		return "", "", fmt.Errorf("pgstore: filter field %s: %w", field, err)
	}

	leaves, err := flatten("", encoded)
	if err != nil {
		return "", "", fmt.Errorf("pgstore: filter field %s: %w", field, err)
	}

	var b strings.Builder
	b.WriteString(pathOf(strings.Split(field, ".")))
	b.WriteString(" ? (")
	vars := make(map[string]interface{}, len(leaves))
	for i, l := range leaves {
		if i > 0 {
			b.WriteString(" && ")
		}
		name := fmt.Sprintf("v%d", i)
		b.WriteString("@" + l.rel + " == $" + name)
		vars[name] = l.value
	}
	b.WriteString(")")

	encodedVars, err := json.Marshal(vars)
	if err != nil {
		return "", "", fmt.Errorf("pgstore: filter field %s: %w", field, err)
	}
	return b.String(), string(encodedVars), nil
}

// extJSONValue renders a value the same way stored documents are rendered
func extJSONValue(value interface{}) (interface{}, error) {
	data, err := bson.MarshalExtJSON(bson.M{"v": value}, false, false)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var wrapper map[string]interface{}
	if err := dec.Decode(&wrapper); err != nil {
		return nil, err
	}
	return wrapper["v"], nil
}

func flatten(rel string, v interface{}) ([]leaf, error) {
	switch x := v.(type) {
	case map[string]interface{}:
		if len(x) == 0 {
			return nil, fmt.Errorf("empty embedded document")
		}
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var out []leaf
		for _, k := range keys {
			sub, err := flatten(rel+"."+quoteKey(k), x[k])
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
		return out, nil
	case []interface{}:
		return nil, fmt.Errorf("array values are not supported")
	}
	return []leaf{{rel: rel, value: v}}, nil
}

func pathOf(parts []string) string {
	var b strings.Builder
	b.WriteString("$")
	for _, p := range parts {
		b.WriteString(".")
		b.WriteString(quoteKey(p))
	}
	return b.String()
}

func quoteKey(key string) string {
	key = strings.ReplaceAll(key, `\`, `\\`)
	key = strings.ReplaceAll(key, `"`, `\"`)
	return `"` + key + `"`
}

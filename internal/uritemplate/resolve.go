package uritemplate

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Result is the outcome of Resolve: the URL with every template token
// removed or substituted, and the query params gathered along the way.
type Result struct {
	URL    string
	Params map[string]string
}

// Resolve expands the template tokens in rawURL using templates.
//
// Simple tokens `{name}` are replaced in place, or dropped when name has no
// value. Form-style tokens `{?a,b}` are always dropped from the URL; every
// listed name with a non-empty value is added to the returned params. Keys
// already present in existing are kept as they are.
//
// Tokens are handled left to right and substituted text is never scanned
// again. A `{` without a closing `}` ends the scan and the remainder is kept
// literally. Neither existing nor templates is modified.
func Resolve(rawURL string, existing map[string]string, templates Values) Result {
	params := make(map[string]string, len(existing))
	for k, v := range existing {
		params[k] = v
	}

	var out strings.Builder
	rest := rawURL
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			break
		}
		closing := strings.IndexByte(rest[open+1:], '}')
		if closing < 0 {
			break
		}
		closing += open + 1

		out.WriteString(rest[:open])
		expr := rest[open+1 : closing]
		if names, ok := strings.CutPrefix(expr, "?"); ok {
			addFormParams(params, names, templates)
		} else if v, ok := templates[expr]; ok {
			out.WriteString(v.String())
		}
		rest = rest[closing+1:]
	}
	out.WriteString(rest)

	return Result{URL: out.String(), Params: params}
}

func addFormParams(params map[string]string, names string, templates Values) {
	for _, name := range strings.Split(names, ",") {
		v, ok := templates[name]
		if !ok || v.Empty() {
			continue
		}
		if _, exists := params[name]; exists {
			continue
		}
		if v.IsList() {
			params[name] = encodeList(v.list)
			continue
		}
		params[name] = v.scalar
	}
}

// encodeList renders a list the way a JSON client would send it: compact
// and without HTML escaping.
func encodeList(items []string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(items); err != nil {
		return "[]"
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

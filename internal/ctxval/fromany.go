package ctxval

import (
	"fmt"
	"time"
)

// FromAny converts a value decoded from TOML (by github.com/pelletier/go-toml/v2,
// or from frontmatter parsed with the same decoder) into the Text | List |
// Table variant. Scalars of any Go type become Text, since spec §3 defines
// context values as "scalars (text), ordered lists, or nested maps" — there
// is no separate numeric or boolean alternative.
func FromAny(v interface{}) Value {
	switch t := v.(type) {
	case nil:
		return Text("")
	case string:
		return Text(t)
	case bool:
		if t {
			return Text("true")
		}
		return Text("false")
	case time.Time:
		return Text(t.Format(time.RFC3339))
	case []interface{}:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = FromAny(item)
		}
		return List(items...)
	case map[string]interface{}:
		tbl := make(Table, len(t))
		for k, item := range t {
			tbl[k] = FromAny(item)
		}
		return FromTable(tbl)
	default:
		return Text(fmt.Sprintf("%v", t))
	}
}

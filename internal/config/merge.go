package config

// mergeAny deep-merges override onto base using the rule spec §6 states for
// profile composition: tables merge key-by-key (recursing when both sides
// hold a table for the same key), scalars and lists are replaced outright.
// It operates on the generic interface{} shapes produced by TOML decoding,
// before any of it is lifted into Config's typed fields.
func mergeAny(base, override interface{}) interface{} {
	bm, bok := base.(map[string]interface{})
	om, ook := override.(map[string]interface{})
	if !bok || !ook {
		return override
	}

	merged := make(map[string]interface{}, len(bm)+len(om))
	for k, v := range bm {
		merged[k] = v
	}
	for k, v := range om {
		if existing, ok := merged[k]; ok {
			merged[k] = mergeAny(existing, v)
		} else {
			merged[k] = v
		}
	}
	return merged
}

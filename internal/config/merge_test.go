package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeAnyRecursesIntoSharedTables(t *testing.T) {
	base := map[string]interface{}{
		"site": map[string]interface{}{
			"title": "default",
			"root":  "http://localhost/",
		},
		"order": []interface{}{"a", "b"},
	}
	override := map[string]interface{}{
		"site": map[string]interface{}{
			"root": "https://example.com/",
		},
	}

	merged := mergeAny(base, override).(map[string]interface{})
	site := merged["site"].(map[string]interface{})

	assert.Equal(t, "default", site["title"])
	assert.Equal(t, "https://example.com/", site["root"])
	assert.Equal(t, []interface{}{"a", "b"}, merged["order"])
}

func TestMergeAnyListsAreReplacedNotAppended(t *testing.T) {
	base := map[string]interface{}{"order": []interface{}{"a", "b"}}
	override := map[string]interface{}{"order": []interface{}{"c"}}

	merged := mergeAny(base, override).(map[string]interface{})
	assert.Equal(t, []interface{}{"c"}, merged["order"])
}

func TestMergeAnyScalarOverrideWins(t *testing.T) {
	assert.Equal(t, "override", mergeAny("base", "override"))
}

//go:build property

package ctxval

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestSetGetRoundTrip validates that any key written via Set is immediately
// observable via Get under the same key, the core invariant the template
// engine's `{~ get K}` and `{~ use}` directives rely on.
func TestSetGetRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("Set then Get returns the stored text", prop.ForAll(
		func(key, value string) bool {
			if key == "" {
				return true
			}
			root := NewTable()
			next, err := Set(root, key, Text(value))
			if err != nil {
				return false
			}
			got, ok := Get(next, key)
			return ok && got.Stringify() == value
		},
		gen.Identifier(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

// TestCloneNeverAliasesMutations validates the isolation guarantee
// Discover depends on: mutating a clone must never be observable through
// the original Value.
func TestCloneNeverAliasesMutations(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("clone mutation does not alias the original", prop.ForAll(
		func(key, original, overwritten string) bool {
			if key == "" {
				return true
			}
			base, err := Set(NewTable(), key, Text(original))
			if err != nil {
				return false
			}
			clone := base.Clone()
			mutated, err := Set(clone, key, Text(overwritten))
			if err != nil {
				return false
			}

			baseVal, _ := Get(base, key)
			mutatedVal, _ := Get(mutated, key)
			return baseVal.Stringify() == original && mutatedVal.Stringify() == overwritten
		},
		gen.Identifier(),
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

// TestMergeIsIdempotentOnEmptyOverride validates that merging an empty
// table onto any base table leaves every existing key unchanged, the
// property the profile/default context composition of spec §3 relies on.
func TestMergeIsIdempotentOnEmptyOverride(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("merging empty override preserves base", prop.ForAll(
		func(key, value string) bool {
			if key == "" {
				return true
			}
			base, err := Set(NewTable(), key, Text(value))
			if err != nil {
				return false
			}
			merged := Merge(base, NewTable())
			got, ok := Get(merged, key)
			return ok && got.Stringify() == value
		},
		gen.Identifier(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

package ctyval

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Merge layers higher over lower and returns the result.
//
// The rules, and the only special cases anywhere in the merge:
//   - two object/map values merge recursively per key; a key absent from the
//     higher layer is inherited unchanged from the lower one;
//   - an explicit null in the higher layer is a real value and overrides;
//     absence (a missing key) never does;
//   - lists and tuples are replaced wholesale, never concatenated;
//   - scalars are replaced outright.
func Merge(lower, higher cty.Value) cty.Value {
	if lower == cty.NilVal {
		return higher
	}
	if higher == cty.NilVal {
		return lower
	}
	if !isMapping(lower) || !isMapping(higher) {
		return higher
	}

	merged := make(map[string]cty.Value)
	if !lower.IsNull() && lower.LengthInt() > 0 {
		for k, v := range lower.AsValueMap() {
			merged[k] = v
		}
	}
	if !higher.IsNull() && higher.LengthInt() > 0 {
		for k, hv := range higher.AsValueMap() {
			if lv, ok := merged[k]; ok {
				merged[k] = Merge(lv, hv)
				continue
			}
			merged[k] = hv
		}
	}
	if len(merged) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(merged)
}

// isMapping reports whether v is a non-null object or map value.
func isMapping(v cty.Value) bool {
	if v.IsNull() || !v.IsKnown() {
		return false
	}
	ty := v.Type()
	return ty.IsObjectType() || ty.IsMapType()
}

// MergeLayers folds the given layers lowest-to-highest priority. Nil layers
// (sources that provided nothing) are skipped entirely, which is what makes
// "undefined does not override" hold at the layer level too.
func MergeLayers(layers ...map[string]any) (map[string]any, error) {
	result := cty.EmptyObjectVal
	for i, layer := range layers {
		if layer == nil {
			continue
		}
		converted, err := FromNative(layer)
		if err != nil {
			return nil, fmt.Errorf("layer %d is not representable: %w", i, err)
		}
		result = Merge(result, converted)
	}
	native, err := ToNative(result)
	if err != nil {
		return nil, err
	}
	out, ok := native.(map[string]any)
	if !ok {
		return map[string]any{}, nil
	}
	return out, nil
}

package objmodel

import (
	"fmt"

	"dario.cat/mergo"
)

// mergeTraits folds the trait bodies and the declared body into one body.
//
// Sources are folded in order into a running copy. A later source overwrites
// an earlier one key by key, except that two map values are merged
// recursively. A key keeps the position where it was first inserted.
//
// With PrecedenceDeclared the declared body is folded last so that direct
// declarations win; with PrecedenceTraits it is folded first.
func mergeTraits(declared *Body, traits []*Body, precedence TraitPrecedence) (*Body, error) {
	sources := make([]*Body, 0, len(traits)+1)
	if precedence == PrecedenceTraits {
		sources = append(sources, declared)
		sources = append(sources, traits...)
	} else {
		sources = append(sources, traits...)
		sources = append(sources, declared)
	}

	out := NewBody()
	for _, src := range sources {
		var err error
		src.Each(func(key string, value any) {
			if err != nil {
				return
			}
			err = mergeKey(out, key, value)
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func mergeKey(out *Body, key string, value any) error {
	prev, ok := out.Get(key)
	if ok {
		dst, dstMap := prev.(map[string]any)
		src, srcMap := value.(map[string]any)
		if dstMap && srcMap {
			merged := cloneValue(dst).(map[string]any)
			if err := mergo.Merge(&merged, cloneValue(src).(map[string]any), mergo.WithOverride); err != nil {
				return fmt.Errorf("merging %q: %w", key, err)
			}
			out.Set(key, merged)
			return nil
		}
	}
	out.Set(key, cloneValue(value))
	return nil
}

package intent

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Split partitions examples into train and eval sets, holding out
// round(n*fraction) examples of every label (at least one, at most n-1).
// Every label with two or more examples appears in both sets.
//
// Labels are processed in label-space order and shuffled with rng, so the
// split is reproducible for a given seed.
func Split(examples []Example, labels *LabelSpace, fraction float64, rng *rand.Rand) (train, eval []Example, err error) {
	if fraction <= 0 || fraction >= 1 {
		return nil, nil, fmt.Errorf("%w: eval fraction must be in (0,1)", ErrInvalidConfig)
	}

	groups := make([][]Example, labels.Len())
	for _, ex := range examples {
		i, ok := labels.Index(ex.Label)
		if !ok {
			return nil, nil, fmt.Errorf("%w: label %q not in label space", ErrInvalidExample, ex.Label)
		}
		groups[i] = append(groups[i], ex)
	}

	for i, group := range groups {
		n := len(group)
		if n < 2 {
			label, _ := labels.Label(i)
			return nil, nil, fmt.Errorf("%w: %q has %d", ErrInsufficientData, label, n)
		}

		rng.Shuffle(n, func(a, b int) {
			group[a], group[b] = group[b], group[a]
		})

		hold := int(math.Round(float64(n) * fraction))
		hold = max(1, min(n-1, hold))

		eval = append(eval, group[:hold]...)
		train = append(train, group[hold:]...)
	}

	return train, eval, nil
}

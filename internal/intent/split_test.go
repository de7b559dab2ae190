package intent_test

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/JaimeStill/companion/internal/intent"
)

func TestSplitCoversEveryLabel(t *testing.T) {
	var examples []intent.Example
	counts := map[string]int{"bow": 5, "greeting": 7, "wave_goodbye": 12}
	for label, n := range counts {
		for i := range n {
			examples = append(examples, intent.Example{Text: fmt.Sprintf("%s %d", label, i), Label: label})
		}
	}

	labels, err := intent.BuildLabelSpace(examples)
	if err != nil {
		t.Fatal(err)
	}

	train, eval, err := intent.Split(examples, labels, 0.2, rand.New(rand.NewPCG(42, 42)))
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	if len(train)+len(eval) != len(examples) {
		t.Fatalf("split lost examples: %d + %d != %d", len(train), len(eval), len(examples))
	}

	evalCounts := map[string]int{}
	for _, ex := range eval {
		evalCounts[ex.Label]++
	}
	trainCounts := map[string]int{}
	for _, ex := range train {
		trainCounts[ex.Label]++
	}

	want := map[string]int{"bow": 1, "greeting": 1, "wave_goodbye": 2}
	for label, n := range want {
		if evalCounts[label] != n {
			t.Errorf("eval %s: got %d, want %d", label, evalCounts[label], n)
		}
		if trainCounts[label] != counts[label]-n {
			t.Errorf("train %s: got %d, want %d", label, trainCounts[label], counts[label]-n)
		}
	}
}

func TestSplitDeterministic(t *testing.T) {
	examples := greetingExamples()
	labels, _ := intent.BuildLabelSpace(examples)

	_, a, _ := intent.Split(append([]intent.Example(nil), examples...), labels, 0.4, rand.New(rand.NewPCG(7, 7)))
	_, b, _ := intent.Split(append([]intent.Example(nil), examples...), labels, 0.4, rand.New(rand.NewPCG(7, 7)))

	if len(a) != len(b) {
		t.Fatalf("eval sizes differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("eval %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestSplitInsufficientData(t *testing.T) {
	examples := []intent.Example{
		{Text: "hello", Label: "greeting"},
		{Text: "hi", Label: "greeting"},
		{Text: "bye", Label: "farewell"},
	}
	labels, _ := intent.BuildLabelSpace(examples)

	_, _, err := intent.Split(examples, labels, 0.2, rand.New(rand.NewPCG(1, 1)))
	if !errors.Is(err, intent.ErrInsufficientData) {
		t.Errorf("got %v, want ErrInsufficientData", err)
	}
}

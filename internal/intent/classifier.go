package intent

import (
	"context"
	"fmt"

	"github.com/JaimeStill/companion/pkg/embedding"
)

// Classifier predicts a label for text using a trained head over an encoder.
// It is read-only after construction and safe for concurrent use.
type Classifier struct {
	manifest *Manifest
	labels   *LabelSpace
	head     *Head
	encoder  embedding.Encoder
}

// LoadClassifier loads the artifact at dir and binds it to enc.
// Returns ErrArtifactLoad when the artifact is missing, corrupt, or was
// trained with an encoder incompatible with enc.
func LoadClassifier(dir string, enc embedding.Encoder) (*Classifier, error) {
	m, labels, head, err := readArtifact(dir)
	if err != nil {
		return nil, err
	}
	if err := checkEncoder(m.Encoder, enc.Descriptor(), head.Dims()); err != nil {
		return nil, err
	}

	return &Classifier{
		manifest: m,
		labels:   labels,
		head:     head,
		encoder:  enc,
	}, nil
}

// NewClassifier builds a classifier directly from a training result.
func NewClassifier(result *Result, enc embedding.Encoder) (*Classifier, error) {
	if err := checkEncoder(result.Encoder, enc.Descriptor(), result.Head.Dims()); err != nil {
		return nil, err
	}
	return &Classifier{
		manifest: &Manifest{
			FormatVersion: formatVersion,
			CreatedAt:     result.FinishedAt,
			Labels:        result.Labels.Labels(),
			Encoder:       result.Encoder,
			Preprocess:    result.Config.Preprocess,
			Training:      result.Config,
			Metrics:       result.Metrics,
			Stopped:       result.Stopped,
		},
		labels:  result.Labels,
		head:    result.Head,
		encoder: enc,
	}, nil
}

func checkEncoder(trained, current embedding.Descriptor, headDims int) error {
	if trained.Provider != current.Provider || trained.Model != current.Model {
		return fmt.Errorf("%w: trained with %s, serving %s", ErrArtifactLoad, trained, current)
	}
	if current.Dimensions != 0 && current.Dimensions != headDims {
		return fmt.Errorf("%w: encoder emits %d dims, head expects %d", ErrArtifactLoad, current.Dimensions, headDims)
	}
	return nil
}

// ID returns the artifact run identifier, empty for unsaved results.
func (c *Classifier) ID() string {
	return c.manifest.ID
}

// Manifest returns the artifact manifest.
func (c *Classifier) Manifest() Manifest {
	return *c.manifest
}

// Labels returns the label space the classifier predicts over.
func (c *Classifier) Labels() *LabelSpace {
	return c.labels
}

// Infer returns the most probable label for text and its probability in [0,1].
// Text is preprocessed with the artifact's recorded settings before encoding.
func (c *Classifier) Infer(ctx context.Context, text string) (string, float64, error) {
	probs, err := c.Probabilities(ctx, text)
	if err != nil {
		return "", 0, err
	}

	best := argmax(probs)
	label, _ := c.labels.Label(best)
	return label, probs[best], nil
}

// Probabilities returns the full distribution over the label space for text,
// indexed by label position.
func (c *Classifier) Probabilities(ctx context.Context, text string) ([]float64, error) {
	prepared := c.manifest.Preprocess.Apply(text)
	if prepared == "" {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, embedding.ErrEmptyInput)
	}

	x, err := c.encoder.Encode(ctx, prepared)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	if len(x) != c.head.Dims() {
		return nil, fmt.Errorf("%w: got %d dims, want %d", ErrEncoding, len(x), c.head.Dims())
	}

	return c.head.Probabilities(x), nil
}

package skills

import "context"

// NopExtractor is a no-op extractor used when ai.enabled is false.
// It returns no skills, so searches fall back to the job field.
type NopExtractor struct{}

// NewNopExtractor returns a NopExtractor.
func NewNopExtractor() *NopExtractor {
	return &NopExtractor{}
}

// Extract returns no skills.
func (n *NopExtractor) Extract(_ context.Context, _ string) ([]string, error) {
	return nil, nil
}

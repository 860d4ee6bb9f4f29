package marshaller

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLMarshaller marshals models as YAML using their yaml struct tags.
type YAMLMarshaller[T any] struct{}

var _ Marshaller[struct{}] = (*YAMLMarshaller[struct{}])(nil)

// NewYAMLMarshaller returns a YAMLMarshaller for T.
func NewYAMLMarshaller[T any]() *YAMLMarshaller[T] {
	return &YAMLMarshaller[T]{}
}

// Marshal renders model as YAML.
func (m *YAMLMarshaller[T]) Marshal(model T) (string, error) {
	data, err := yaml.Marshal(model)
	if err != nil {
		return "", fmt.Errorf("marshal yaml: %w", err)
	}

	return string(data), nil
}

// Unmarshal decodes YAML data into model.
func (m *YAMLMarshaller[T]) Unmarshal(data []byte, model *T) error {
	err := yaml.Unmarshal(data, model)
	if err != nil {
		return fmt.Errorf("unmarshal yaml: %w", err)
	}

	return nil
}

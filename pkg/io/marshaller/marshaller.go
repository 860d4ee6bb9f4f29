// Package marshaller serializes reports and configuration for display.
package marshaller

// Marshaller converts a model to and from its textual form.
type Marshaller[T any] interface {
	Marshal(model T) (string, error)
	Unmarshal(data []byte, model *T) error
}

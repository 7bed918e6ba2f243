package appstate

// FieldDescriptor describes one declared property and its kind.
type FieldDescriptor struct {
	Name string
	Kind string
}

// DefaultSchemaGenerator returns the built-in descriptor-based generator.
func DefaultSchemaGenerator() SchemaGenerator {
	return descriptorGenerator{}
}

// WithSchemaGenerator configures a custom schema generator implementation.
func WithSchemaGenerator(generator SchemaGenerator) Option {
	return func(cfg *config) {
		cfg.schemaGenerator = generator
	}
}

// Schema describes the declared typed properties using the configured
// generator. Dynamic variables are not part of the schema; they have no
// declared kind.
func (s *AppState) Schema() (SchemaDocument, error) {
	registry, err := s.properties()
	if err != nil {
		return SchemaDocument{}, err
	}
	return s.schemaGenerator().Generate(registry.declared())
}

type descriptorGenerator struct{}

func (descriptorGenerator) Generate(properties []TypedProperty) (SchemaDocument, error) {
	descriptors := make([]FieldDescriptor, 0, len(properties))
	for _, property := range properties {
		descriptors = append(descriptors, FieldDescriptor{
			Name: property.Name,
			Kind: property.Kind.String(),
		})
	}
	return SchemaDocument{
		Format:   SchemaFormatDescriptors,
		Document: descriptors,
	}, nil
}

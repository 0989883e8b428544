// Package registry holds the step handler factories and the config schemas
// workflows are validated against at save time.
package registry

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/xeipuuv/gojsonschema"

	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/protocol"
)

type Registry struct {
	logger    *slog.Logger
	factories map[models.StepType]protocol.StepHandlerFactory
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		logger:    log,
		factories: make(map[models.StepType]protocol.StepHandlerFactory),
	}
}

// RegisterHandler registers a factory under its step type, replacing any
// previous registration.
func (r *Registry) RegisterHandler(factory protocol.StepHandlerFactory) {
	r.factories[factory.Type()] = factory
}

// CreateHandler returns a handler bound to the step, or an error when the
// step type is not registered.
func (r *Registry) CreateHandler(step *models.Step) (protocol.StepHandler, error) {
	factory, ok := r.factories[step.Type]
	if !ok {
		return nil, fmt.Errorf("step type '%s' not registered", step.Type)
	}

	return factory.Create(step)
}

// RegisteredTypes returns the step types with a registered factory.
func (r *Registry) RegisteredTypes() []models.StepType {
	types := make([]models.StepType, 0, len(r.factories))
	for stepType := range r.factories {
		types = append(types, stepType)
	}

	return types
}

// Schema returns the config schema registered for the step type.
func (r *Registry) Schema(stepType models.StepType) (map[string]any, bool) {
	factory, ok := r.factories[stepType]
	if !ok {
		return nil, false
	}

	return factory.Schema(), true
}

// ValidateStep checks the step's config against its type's registered schema.
// A nil schema means the type accepts any config.
func (r *Registry) ValidateStep(step *models.Step) error {
	factory, ok := r.factories[step.Type]
	if !ok {
		return fmt.Errorf("step type '%s' not registered", step.Type)
	}

	schema := factory.Schema()
	if schema == nil {
		return nil
	}

	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("failed to marshal schema for step type '%s': %w", step.Type, err)
	}

	config := step.Config
	if config == nil {
		config = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewGoLoader(config),
	)
	if err != nil {
		return fmt.Errorf("failed to validate step config: %w", err)
	}

	if !result.Valid() {
		details := ""
		for _, desc := range result.Errors() {
			if details != "" {
				details += "; "
			}

			details += desc.String()
		}

		return fmt.Errorf("invalid config for step type '%s': %s", step.Type, details)
	}

	return nil
}

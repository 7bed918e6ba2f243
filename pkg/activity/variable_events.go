package activity

import "time"

const (
	// VerbVariableAdded fires when Set creates a variable not previously present.
	VerbVariableAdded = "variable.added"
	// VerbVariableUpdated fires when Set replaces an existing variable's value.
	VerbVariableUpdated = "variable.updated"
	// VerbVariableRemoved fires when a null Set deletes an existing variable.
	VerbVariableRemoved = "variable.removed"
)

// ChangeInput describes the common fields for variable lifecycle events.
// OldValue and NewValue are native scalars; nil marks an absent side.
type ChangeInput struct {
	ContainerID string
	Variable    string
	Channel     string
	OldValue    any
	NewValue    any
	Metadata    map[string]any
	OccurredAt  time.Time
}

// BuildVariableAddedEvent constructs a normalized event for variable creation.
func BuildVariableAddedEvent(input ChangeInput) Event {
	return buildVariableEvent(VerbVariableAdded, input)
}

// BuildVariableUpdatedEvent constructs a normalized event for variable updates.
func BuildVariableUpdatedEvent(input ChangeInput) Event {
	return buildVariableEvent(VerbVariableUpdated, input)
}

// BuildVariableRemovedEvent constructs a normalized event for variable deletion.
func BuildVariableRemovedEvent(input ChangeInput) Event {
	return buildVariableEvent(VerbVariableRemoved, input)
}

func buildVariableEvent(verb string, input ChangeInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.ContainerID != "" {
		metadata = ensureMetadata(metadata)
		metadata["container_id"] = input.ContainerID
	}
	if input.OldValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["old_value"] = input.OldValue
	}
	if input.NewValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["new_value"] = input.NewValue
	}

	return Event{
		Verb:        verb,
		ContainerID: input.ContainerID,
		Variable:    input.Variable,
		Channel:     input.Channel,
		OldValue:    input.OldValue,
		NewValue:    input.NewValue,
		Metadata:    metadata,
		OccurredAt:  input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}

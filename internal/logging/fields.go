package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldCollection names the entity collection (goals, reviews, tts, profile).
	FieldCollection = "collection"
	// FieldEntity is the entity directory name a record refers to.
	FieldEntity = "entity"
	// FieldSessionID correlates every line emitted by one CLI invocation.
	FieldSessionID = "session_id"
	// FieldEventType is the machine-readable event label.
	FieldEventType = "event_type"
	// FieldErrorHint tells the reader what to check next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldPath is a filesystem path involved in the event.
	FieldPath = "path"
)

package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRound is the snowball round number a log line belongs to.
	FieldRound = "round"
	// FieldSource names the bibliographic source or pipeline stage involved.
	FieldSource = "source"
	// FieldKeyType names the identity key class that matched during dedup.
	FieldKeyType = "key_type"
	// FieldPaperTitle carries a paper's display title.
	FieldPaperTitle = "paper_title"
	// FieldErrorHint suggests an operator action when an error is logged.
	FieldErrorHint = "error_hint"
	// FieldRunID is the unique identifier of one orchestrator run.
	FieldRunID = "run_id"
)

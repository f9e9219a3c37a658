package trail

// ProgressStatus is the per-item progress state. The legacy schema keeps
// these as rows in a lookup table; the core only ever sees this closed set.
type ProgressStatus string

const (
	ProgressNotStarted ProgressStatus = "NOT_STARTED"
	ProgressInProgress ProgressStatus = "IN_PROGRESS"
	ProgressCompleted  ProgressStatus = "COMPLETED"
)

// EnrollmentStatus is the per-trail enrollment state
type EnrollmentStatus string

const (
	EnrollmentEnrolled   EnrollmentStatus = "ENROLLED"
	EnrollmentInProgress EnrollmentStatus = "IN_PROGRESS"
	EnrollmentCompleted  EnrollmentStatus = "COMPLETED"
)

// ItemKind classifies a trail item
type ItemKind string

const (
	KindVideo ItemKind = "VIDEO"
	KindDoc   ItemKind = "DOC"
	KindForm  ItemKind = "FORM"
)

// QuestionKind classifies a form question
type QuestionKind string

const (
	QuestionEssay        QuestionKind = "ESSAY"
	QuestionTrueOrFalse  QuestionKind = "TRUE_OR_FALSE"
	QuestionSingleChoice QuestionKind = "SINGLE_CHOICE"
)

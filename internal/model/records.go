package model

// Module processing status constants.
const (
	ModuleStatusProcessing = "processing"
	ModuleStatusReady      = "ready"
	ModuleStatusError      = "error"
)

// Module is the semantic view of a safety-training module record.
//
// swagger:model
type Module struct {

	// The record identifier assigned by the external store
	//
	// readOnly: true
	ID string `json:"id,omitempty"`

	// The account that owns the module
	AccountID string `json:"account_id,omitempty"`

	// The module title
	Title string `json:"title"`

	// The raw document text the module was created from
	OriginalContent string `json:"original_content,omitempty"`

	// The simplified, worker-friendly rendition of the document
	ProcessedContent string `json:"processed_content,omitempty"`

	// The generated comprehension questions, as a JSON document
	Questions string `json:"questions,omitempty"`

	// The name of the uploaded file
	FileName string `json:"file_name,omitempty"`

	// The processing status: processing, ready, or error
	Status string `json:"status,omitempty"`
}

// Worker is the semantic view of a worker record.
//
// swagger:model
type Worker struct {

	// The record identifier assigned by the external store
	//
	// readOnly: true
	ID string `json:"id,omitempty"`

	// The worker's display name
	Name string `json:"name"`

	// The employer-assigned worker identifier
	WorkerID string `json:"worker_id"`

	// The worker's phone number
	Phone string `json:"phone,omitempty"`

	// The worker's preferred language code
	PreferredLanguage string `json:"preferred_language,omitempty"`
}

// Verification is the semantic view of a comprehension quiz result.
//
// swagger:model
type Verification struct {

	// The record identifier assigned by the external store
	//
	// readOnly: true
	ID string `json:"id,omitempty"`

	// The module the quiz was taken for
	ModuleID string `json:"module_id"`

	// The worker's display name as entered on the form
	WorkerName string `json:"worker_name"`

	// The employer-assigned worker identifier
	WorkerID string `json:"worker_id"`

	// The language the quiz was taken in
	LanguageUsed string `json:"language_used"`

	// The worker's answers, as a JSON document
	Answers string `json:"answers,omitempty"`

	// The quiz score, from 0 to 100
	Score int `json:"score"`

	// True if the score met the pass threshold
	Passed bool `json:"passed"`

	// The completion time reported by the client, in RFC 3339 format
	CompletedAt string `json:"completed_at"`
}

package types

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ------------------------------
// DMS
// ------------------------------

// GetDmsObjectParams addresses one DMS object.
type GetDmsObjectParams struct {
	RepositoryID string
	SourceID     string
	DmsObjectID  string
}

func (p GetDmsObjectParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.RepositoryID, validation.Required),
		validation.Field(&p.SourceID, validation.Required),
		validation.Field(&p.DmsObjectID, validation.Required),
	)
}

// CreateDmsObjectParams describes a new DMS object. ContentLocationURI points
// at previously uploaded content; it may be empty for objects without a file.
type CreateDmsObjectParams struct {
	RepositoryID       string     `json:"-"`
	SourceID           string     `json:"sourceId"`
	SourceCategory     string     `json:"sourceCategory"`
	SourceProperties   []Property `json:"sourceProperties,omitempty"`
	Filename           string     `json:"filename,omitempty"`
	ContentLocationURI string     `json:"contentLocationUri,omitempty"`
}

func (p CreateDmsObjectParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.RepositoryID, validation.Required),
		validation.Field(&p.SourceID, validation.Required),
		validation.Field(&p.SourceCategory, validation.Required),
	)
}

// SearchDmsObjectsParams narrows a repository search.
type SearchDmsObjectsParams struct {
	RepositoryID string
	SourceID     string
	Fulltext     string
	Categories   []string
	PageSize     int
	Page         int
}

func (p SearchDmsObjectsParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.RepositoryID, validation.Required),
		validation.Field(&p.SourceID, validation.Required),
		validation.Field(&p.PageSize, validation.Min(0), validation.Max(1000)),
		validation.Field(&p.Page, validation.Min(0)),
	)
}

// ------------------------------
// Tasks
// ------------------------------

// CreateTaskParams is the body of a new task.
type CreateTaskParams struct {
	Subject        string         `json:"subject"`
	Description    string         `json:"description,omitempty"`
	Assignees      []string       `json:"assignees"`
	Sender         string         `json:"sender,omitempty"`
	CorrelationKey string         `json:"correlationKey,omitempty"`
	Priority       int            `json:"priority,omitempty"`
	ReminderDate   *time.Time     `json:"reminderDate,omitempty"`
	DueDate        *time.Time     `json:"dueDate,omitempty"`
	RetentionTime  string         `json:"retentionTime,omitempty"`
	Context        *TaskContext   `json:"context,omitempty"`
	Metadata       []TaskMetadata `json:"metadata,omitempty"`
	// DetailsURI is sent as the task's details link.
	DetailsURI string `json:"-"`
}

func (p CreateTaskParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Subject, validation.Required, validation.Length(1, 255)),
		validation.Field(&p.Assignees, validation.Required),
		validation.Field(&p.Priority, validation.Min(0), validation.Max(100)),
	)
}

// UpdateTaskParams patches an existing task. Nil fields are left unchanged.
type UpdateTaskParams struct {
	Subject     *string    `json:"subject,omitempty"`
	Description *string    `json:"description,omitempty"`
	Assignees   []string   `json:"assignees,omitempty"`
	Priority    *int       `json:"priority,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

func (p UpdateTaskParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Subject, validation.NilOrNotEmpty),
		validation.Field(&p.Priority, validation.Min(0), validation.Max(100)),
	)
}

// ListTasksParams pages through the task list.
type ListTasksParams struct {
	Page     int
	PageSize int
}

func (p ListTasksParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Page, validation.Min(0)),
		validation.Field(&p.PageSize, validation.Min(0), validation.Max(1000)),
	)
}

// ------------------------------
// Business objects
// ------------------------------

// BoEntityParams addresses a custom business object entity set or, with Key,
// a single entity.
type BoEntityParams struct {
	ModelName        string
	PluralEntityName string
	Key              string
}

func (p BoEntityParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ModelName, validation.Required),
		validation.Field(&p.PluralEntityName, validation.Required),
	)
}

// ValidateWithKey also requires Key.
func (p BoEntityParams) ValidateWithKey() error {
	if err := p.Validate(); err != nil {
		return err
	}
	return validation.Validate(p.Key, validation.Required.Error("key is required"))
}

// ------------------------------
// Logging
// ------------------------------

// IngestRequest is the wire body of POST /logging/ingest.
type IngestRequest struct {
	Resource IngestResource `json:"resource"`
	Logs     []LogEvent     `json:"logs"`
}

type IngestResource struct {
	SvcName string `json:"svc"`
}

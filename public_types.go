package dvelop

import (
	"github.com/d-velop/dvelop-sdk-go/internal/api"
	"github.com/d-velop/dvelop-sdk-go/internal/hal"
	"github.com/d-velop/dvelop-sdk-go/internal/transport"
	"github.com/d-velop/dvelop-sdk-go/internal/types"
	"github.com/d-velop/dvelop-sdk-go/internal/uritemplate"
)

// Public aliases so SDK consumers only import this package.
type (
	// Identity provider
	AuthSession = types.AuthSession
	User        = types.User

	// DMS
	Repository             = types.Repository
	DmsObject              = types.DmsObject
	Property               = types.Property
	Note                   = types.Note
	GetDmsObjectParams     = types.GetDmsObjectParams
	CreateDmsObjectParams  = types.CreateDmsObjectParams
	SearchDmsObjectsParams = types.SearchDmsObjectsParams

	// Tasks
	Task             = types.Task
	TaskContext      = types.TaskContext
	TaskMetadata     = types.TaskMetadata
	CreateTaskParams = types.CreateTaskParams
	UpdateTaskParams = types.UpdateTaskParams
	ListTasksParams  = types.ListTasksParams

	// Business objects
	BoEntityParams = types.BoEntityParams

	// Logging
	LogEvent   = types.LogEvent
	Severity   = types.Severity
	EnqueueAck = types.EnqueueAck

	// HAL
	Links = hal.Links
	Link  = hal.Link

	// URI templates
	TemplateValue = uritemplate.Value
	Templates     = uritemplate.Values
)

// Page is one page of a list result; Next is nil on the last page.
type Page[T any] = api.Page[T]

const (
	SeverityTrace = types.SeverityTrace
	SeverityDebug = types.SeverityDebug
	SeverityInfo  = types.SeverityInfo
	SeverityWarn  = types.SeverityWarn
	SeverityError = types.SeverityError
	SeverityFatal = types.SeverityFatal
)

// StringValue is a scalar template value.
func StringValue(s string) TemplateValue { return uritemplate.String(s) }

// ListValue is a list template value. In form-style expressions it is sent
// as a JSON array.
func ListValue(items ...string) TemplateValue { return uritemplate.List(items...) }

// Navigation describes a HAL walk: start at URL, follow each relation in
// order, expand every href with Templates.
type Navigation struct {
	URL       string
	Follows   []string
	Templates Templates
	Params    map[string]string
}

func (n Navigation) request() transport.Request {
	return transport.Request{
		URL:       n.URL,
		Follows:   n.Follows,
		Templates: n.Templates,
		Params:    n.Params,
	}.Clone()
}

// Resolved is where a Navigation ends.
type Resolved struct {
	URL    string            `json:"url"`
	Params map[string]string `json:"params"`
}

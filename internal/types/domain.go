// Package types holds the request, response and domain models shared by the
// endpoint builders and the public client.
package types

import (
	"time"

	"github.com/d-velop/dvelop-sdk-go/internal/hal"
)

// ------------------------------
// Identity provider
// ------------------------------

// AuthSession is an authenticated session returned by the identity provider.
type AuthSession struct {
	ID     string    `json:"AuthSessionId"`
	Expire time.Time `json:"Expire"`
}

// User is the principal behind an auth session.
type User struct {
	ID          string      `json:"id"`
	UserName    string      `json:"userName,omitempty"`
	DisplayName string      `json:"displayName,omitempty"`
	Emails      []UserEmail `json:"emails,omitempty"`
	Groups      []UserGroup `json:"groups,omitempty"`
	Photos      []UserPhoto `json:"photos,omitempty"`
}

type UserEmail struct {
	Value string `json:"value"`
}

type UserGroup struct {
	Value   string `json:"value"`
	Display string `json:"display,omitempty"`
}

type UserPhoto struct {
	Value string `json:"value"`
	Type  string `json:"type,omitempty"`
}

// ------------------------------
// DMS
// ------------------------------

// Repository is a DMS repository.
type Repository struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Links  hal.Links `json:"_links,omitempty"`
	Source string    `json:"sourceId,omitempty"`
}

// Property is a source-mapped DMS object property.
type Property struct {
	Key          string   `json:"key"`
	Value        string   `json:"value,omitempty"`
	Values       []string `json:"values,omitempty"`
	DisplayValue string   `json:"displayValue,omitempty"`
}

// DmsObject is a document or dossier mapped onto a source.
type DmsObject struct {
	ID               string     `json:"id"`
	SourceCategories []string   `json:"sourceCategories,omitempty"`
	SourceProperties []Property `json:"sourceProperties,omitempty"`
	Links            hal.Links  `json:"_links,omitempty"`
}

// Note is a comment attached to a DMS object.
type Note struct {
	Text    string    `json:"text"`
	Creator NoteActor `json:"creator"`
	Created time.Time `json:"created"`
}

type NoteActor struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName,omitempty"`
}

// ------------------------------
// Tasks
// ------------------------------

// Task is a work item in the task app.
type Task struct {
	ID             string         `json:"id,omitempty"`
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
	Completed      bool           `json:"completed,omitempty"`
	Links          hal.Links      `json:"_links,omitempty"`
}

// TaskContext names the business context a task belongs to.
type TaskContext struct {
	Key  string `json:"key,omitempty"`
	Type string `json:"type,omitempty"`
	Name string `json:"name,omitempty"`
}

// TaskMetadata is an extra column shown in the task list.
type TaskMetadata struct {
	Key     string   `json:"key"`
	Caption string   `json:"caption,omitempty"`
	Values  []string `json:"values,omitempty"`
}

// ------------------------------
// Logging
// ------------------------------

// Severity follows the OpenTelemetry severity numbers.
type Severity int

const (
	SeverityTrace Severity = 1
	SeverityDebug Severity = 5
	SeverityInfo  Severity = 9
	SeverityWarn  Severity = 13
	SeverityError Severity = 17
	SeverityFatal Severity = 21
)

// LogEvent is one structured log record shipped to the logging app.
type LogEvent struct {
	ID         string         `json:"id,omitempty"`
	Time       time.Time      `json:"time"`
	Severity   Severity       `json:"sev"`
	Body       string         `json:"body"`
	Name       string         `json:"name,omitempty"`
	TraceID    string         `json:"trace,omitempty"`
	SpanID     string         `json:"span,omitempty"`
	Attributes map[string]any `json:"attr,omitempty"`
}

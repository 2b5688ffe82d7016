package types

import "github.com/d-velop/dvelop-sdk-go/internal/hal"

// EnqueueAck acknowledges a log event accepted by the async executor.
type EnqueueAck struct {
	Source  string `json:"source"`
	EventID string `json:"eventId"`
	Status  string `json:"status"`
}

// RepositoryList is the body behind the allrepos relation.
type RepositoryList struct {
	Repositories []Repository `json:"repositories"`
	Links        hal.Links    `json:"_links,omitempty"`
}

// NoteList is the body behind the notes relation.
type NoteList struct {
	Notes []Note    `json:"notes"`
	Links hal.Links `json:"_links,omitempty"`
}

// SearchResult is one page of a DMS search.
type SearchResult struct {
	Page  int         `json:"page"`
	Items []DmsObject `json:"items"`
	Links hal.Links   `json:"_links,omitempty"`
}

// TaskList is one page of the task list.
type TaskList struct {
	Tasks []Task    `json:"tasks"`
	Links hal.Links `json:"_links,omitempty"`
}

// ODataList is the OData envelope returned for business object entity sets.
type ODataList[T any] struct {
	Value []T `json:"value"`
}

// ImpersonatedSession is returned by the impersonation endpoint.
type ImpersonatedSession struct {
	AuthSessionID string `json:"authSessionId"`
}

package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/d-velop/dvelop-sdk-go/internal/hal"
	"github.com/d-velop/dvelop-sdk-go/internal/transport"
	"github.com/d-velop/dvelop-sdk-go/internal/types"
	"github.com/d-velop/dvelop-sdk-go/internal/uritemplate"
)

const (
	tasksPath = "/task/tasks"
	taskPath  = "/task/tasks/{taskid}"
)

// TaskUpdate pairs a task ID with the fields to change.
type TaskUpdate struct {
	ID    string
	Patch types.UpdateTaskParams
}

type createTaskBody struct {
	types.CreateTaskParams
	Links hal.Links `json:"_links,omitempty"`
}

// CreateTask creates a task and returns its location.
var CreateTask = Endpoint[types.CreateTaskParams, string]{
	Build: func(p types.CreateTaskParams) (transport.Request, error) {
		if err := p.Validate(); err != nil {
			return transport.Request{}, err
		}
		body := createTaskBody{CreateTaskParams: p}
		if p.DetailsURI != "" {
			body.Links = hal.Links{}.Add("details", hal.Link{Href: p.DetailsURI})
		}
		return transport.Request{Method: http.MethodPost, URL: tasksPath, Body: body}, nil
	},
	Transform: Location,
}

// GetTask reads one task.
var GetTask = Endpoint[string, *types.Task]{
	Build: func(id string) (transport.Request, error) {
		return taskRequest(http.MethodGet, id, nil)
	},
	Transform: DecodeJSON[types.Task],
}

// UpdateTask patches a task.
var UpdateTask = Endpoint[TaskUpdate, struct{}]{
	Build: func(u TaskUpdate) (transport.Request, error) {
		if err := u.Patch.Validate(); err != nil {
			return transport.Request{}, err
		}
		return taskRequest(http.MethodPatch, u.ID, u.Patch)
	},
	Transform: Discard,
}

// CompleteTask marks a task as done.
var CompleteTask = Endpoint[string, struct{}]{
	Build: func(id string) (transport.Request, error) {
		req, err := taskRequest(http.MethodPost, id, map[string]bool{"complete": true})
		req.URL += "/completionState"
		return req, err
	},
	Transform: Discard,
}

// DeleteTask removes a task.
var DeleteTask = Endpoint[string, struct{}]{
	Build: func(id string) (transport.Request, error) {
		return taskRequest(http.MethodDelete, id, nil)
	},
	Transform: Discard,
}

// ListTasks reads the first page of the task list. Use it with CallPaged and
// TaskItems.
var ListTasks = Endpoint[types.ListTasksParams, *types.TaskList]{
	Build: func(p types.ListTasksParams) (transport.Request, error) {
		if err := p.Validate(); err != nil {
			return transport.Request{}, err
		}
		tpl := uritemplate.Values{}
		if p.Page > 0 {
			tpl["page"] = uritemplate.String(strconv.Itoa(p.Page))
		}
		if p.PageSize > 0 {
			tpl["pagesize"] = uritemplate.String(strconv.Itoa(p.PageSize))
		}
		return transport.Request{URL: tasksPath + "{?page,pagesize}", Templates: tpl}, nil
	},
	Transform: DecodeJSON[types.TaskList],
}

// TaskItems extracts the page content of a task list.
func TaskItems(l *types.TaskList) ([]types.Task, hal.Links) {
	return l.Tasks, l.Links
}

func taskRequest(method, id string, body any) (transport.Request, error) {
	if err := types.ValidateIDPresent(id, "taskId"); err != nil {
		return transport.Request{}, err
	}
	return transport.Request{
		Method:    method,
		URL:       taskPath,
		Body:      body,
		Templates: uritemplate.Values{"taskid": uritemplate.String(url.PathEscape(id))},
	}, nil
}

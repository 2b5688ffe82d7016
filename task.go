package dvelop

import (
	"context"

	"github.com/d-velop/dvelop-sdk-go/internal/api"
)

// CreateTask creates a task and returns its location.
func (c *Client) CreateTask(ctx context.Context, params CreateTaskParams) (string, error) {
	return api.CreateTask.Call(ctx, c.do, params)
}

// GetTask reads a task.
func (c *Client) GetTask(ctx context.Context, taskID string) (*Task, error) {
	return api.GetTask.Call(ctx, c.do, taskID)
}

// UpdateTask patches a task.
func (c *Client) UpdateTask(ctx context.Context, taskID string, params UpdateTaskParams) error {
	_, err := api.UpdateTask.Call(ctx, c.do, api.TaskUpdate{ID: taskID, Patch: params})
	return err
}

// CompleteTask marks a task as done.
func (c *Client) CompleteTask(ctx context.Context, taskID string) error {
	_, err := api.CompleteTask.Call(ctx, c.do, taskID)
	return err
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	_, err := api.DeleteTask.Call(ctx, c.do, taskID)
	return err
}

// ListTasks returns the first page of the task list.
func (c *Client) ListTasks(ctx context.Context, params ListTasksParams) (*Page[Task], error) {
	return api.CallPaged(ctx, c.do, api.ListTasks, params, api.TaskItems)
}

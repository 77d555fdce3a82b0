package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTask(t *testing.T) {
	setup()
	defer teardown()

	userService := UserService{}
	taskService := TaskService{}

	user, err := userService.CreateUser("alex", "alex@example.com", "alexpass1", 0)
	require.NoError(t, err)

	task, err := taskService.CreateTask(user.Id, "  Buy milk  ", false)
	require.NoError(t, err)
	assert.NotEmpty(t, task.Id)
	assert.Equal(t, "Buy milk", task.Description)
	assert.False(t, task.Completed)
	assert.Equal(t, user.Id, task.OwnerId)

	// Whitespace-only descriptions are rejected before anything is written.
	_, err = taskService.CreateTask(user.Id, "   ", false)
	assert.Error(t, err)
	assert.True(t, IsValidation(err))

	tasks, err := taskService.GetTasks(user.Id, TaskQuery{})
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestGetTasksFilterSortPage(t *testing.T) {
	setup()
	defer teardown()

	userService := UserService{}
	taskService := TaskService{}

	user, err := userService.CreateUser("alex", "alex@example.com", "alexpass1", 0)
	require.NoError(t, err)

	_, err = taskService.CreateTask(user.Id, "First", false)
	require.NoError(t, err)
	_, err = taskService.CreateTask(user.Id, "Second", true)
	require.NoError(t, err)
	_, err = taskService.CreateTask(user.Id, "Third", true)
	require.NoError(t, err)

	completed := true
	tasks, err := taskService.GetTasks(user.Id, TaskQuery{Completed: &completed})
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	incomplete := false
	tasks, err = taskService.GetTasks(user.Id, TaskQuery{Completed: &incomplete})
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Equal(t, "First", tasks[0].Description)

	tasks, err = taskService.GetTasks(user.Id, TaskQuery{SortBy: "description:desc"})
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "Third", tasks[0].Description)
	assert.Equal(t, "First", tasks[2].Description)

	tasks, err = taskService.GetTasks(user.Id, TaskQuery{SortBy: "description", Limit: 1, Skip: 1})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Second", tasks[0].Description)

	_, err = taskService.GetTasks(user.Id, TaskQuery{SortBy: "owner_id"})
	assert.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestTaskOwnershipIsolation(t *testing.T) {
	setup()
	defer teardown()

	userService := UserService{}
	taskService := TaskService{}

	alex, err := userService.CreateUser("alex", "alex@example.com", "alexpass1", 0)
	require.NoError(t, err)
	jess, err := userService.CreateUser("jess", "jess@example.com", "jesspass1", 0)
	require.NoError(t, err)

	task, err := taskService.CreateTask(alex.Id, "Secret plans", false)
	require.NoError(t, err)

	// Another user's task is indistinguishable from a missing one.
	_, err = taskService.GetTask(task.Id, jess.Id)
	assert.Equal(t, ErrNotFound, err)

	_, err = taskService.UpdateTask(task.Id, jess.Id, map[string]any{"completed": true})
	assert.Equal(t, ErrNotFound, err)

	_, err = taskService.DeleteTask(task.Id, jess.Id)
	assert.Equal(t, ErrNotFound, err)

	// The failed cross-owner update left the task untouched.
	reloaded, err := taskService.GetTask(task.Id, alex.Id)
	require.NoError(t, err)
	assert.False(t, reloaded.Completed)

	// Jess sees an empty listing, not Alex's tasks.
	tasks, err := taskService.GetTasks(jess.Id, TaskQuery{})
	require.NoError(t, err)
	assert.Len(t, tasks, 0)
}

func TestUpdateTask(t *testing.T) {
	setup()
	defer teardown()

	userService := UserService{}
	taskService := TaskService{}

	user, err := userService.CreateUser("alex", "alex@example.com", "alexpass1", 0)
	require.NoError(t, err)

	task, err := taskService.CreateTask(user.Id, "First", false)
	require.NoError(t, err)

	updated, err := taskService.UpdateTask(task.Id, user.Id, map[string]any{
		"description": "First, revised",
		"completed":   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "First, revised", updated.Description)
	assert.True(t, updated.Completed)

	// Unknown fields reject the whole update.
	_, err = taskService.UpdateTask(task.Id, user.Id, map[string]any{
		"completed": false,
		"priority":  float64(1),
	})
	assert.Error(t, err)
	assert.True(t, IsValidation(err))

	reloaded, err := taskService.GetTask(task.Id, user.Id)
	require.NoError(t, err)
	assert.True(t, reloaded.Completed)

	// Wrong value types are validation errors too.
	_, err = taskService.UpdateTask(task.Id, user.Id, map[string]any{"completed": "yes"})
	assert.True(t, IsValidation(err))
	_, err = taskService.UpdateTask(task.Id, user.Id, map[string]any{"description": "   "})
	assert.True(t, IsValidation(err))
}

func TestDeleteTask(t *testing.T) {
	setup()
	defer teardown()

	userService := UserService{}
	taskService := TaskService{}

	user, err := userService.CreateUser("alex", "alex@example.com", "alexpass1", 0)
	require.NoError(t, err)

	task, err := taskService.CreateTask(user.Id, "First", false)
	require.NoError(t, err)

	deleted, err := taskService.DeleteTask(task.Id, user.Id)
	require.NoError(t, err)
	assert.Equal(t, task.Id, deleted.Id)

	_, err = taskService.GetTask(task.Id, user.Id)
	assert.Equal(t, ErrNotFound, err)
}

func TestTaskImage(t *testing.T) {
	setup()
	defer teardown()

	userService := UserService{}
	taskService := TaskService{}

	alex, err := userService.CreateUser("alex", "alex@example.com", "alexpass1", 0)
	require.NoError(t, err)
	jess, err := userService.CreateUser("jess", "jess@example.com", "jesspass1", 0)
	require.NoError(t, err)

	task, err := taskService.CreateTask(alex.Id, "First", false)
	require.NoError(t, err)

	_, err = taskService.GetImage(task.Id)
	assert.Equal(t, ErrNotFound, err)

	blob := []byte{0x89, 0x50, 0x4e, 0x47}
	assert.Equal(t, ErrNotFound, taskService.SetImage(task.Id, jess.Id, blob))
	require.NoError(t, taskService.SetImage(task.Id, alex.Id, blob))

	image, err := taskService.GetImage(task.Id)
	require.NoError(t, err)
	assert.Equal(t, blob, image)

	require.NoError(t, taskService.ClearImage(task.Id, alex.Id))
	_, err = taskService.GetImage(task.Id)
	assert.Equal(t, ErrNotFound, err)
}

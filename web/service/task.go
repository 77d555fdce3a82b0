package service

import (
	"strings"

	"taskman/database"
	"taskman/database/model"

	"github.com/google/uuid"
)

// Fields a PATCH /tasks/:id request may touch.
var taskUpdatableFields = map[string]bool{
	"description": true,
	"completed":   true,
}

// Sortable columns for GET /tasks?sortBy=. The key is the JSON field name,
// the value the database column. ORDER BY clauses are never built from raw
// client input.
var taskSortColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"description": "description",
	"completed":   "completed",
}

// TaskQuery narrows and orders a task listing.
type TaskQuery struct {
	Completed *bool
	SortBy    string
	Limit     int
	Skip      int
}

// TaskService owns task records. Every read and mutation is filtered by
// both task id and owner id, so one user's tasks are invisible to another.
type TaskService struct{}

func validateDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", newValidationError("description is required")
	}
	return description, nil
}

// CreateTask stores a new task owned by ownerId.
func (s *TaskService) CreateTask(ownerId, description string, completed bool) (*model.Task, error) {
	description, err := validateDescription(description)
	if err != nil {
		return nil, err
	}

	task := &model.Task{
		Id:          uuid.New().String(),
		Description: description,
		Completed:   completed,
		OwnerId:     ownerId,
	}
	if err := database.GetDB().Create(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

// GetTasks lists the owner's tasks, optionally filtered by completion,
// ordered and paged.
func (s *TaskService) GetTasks(ownerId string, q TaskQuery) ([]model.Task, error) {
	db := database.GetDB().Where("owner_id = ?", ownerId)

	if q.Completed != nil {
		db = db.Where("completed = ?", *q.Completed)
	}

	if q.SortBy != "" {
		field, direction, _ := strings.Cut(q.SortBy, ":")
		column, ok := taskSortColumns[field]
		if !ok {
			return nil, newValidationError("cannot sort by %q", field)
		}
		if direction == "desc" {
			column += " desc"
		}
		db = db.Order(column)
	}

	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	if q.Skip > 0 {
		db = db.Offset(q.Skip)
	}

	tasks := make([]model.Task, 0)
	if err := db.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask loads one task by id, visible only to its owner.
func (s *TaskService) GetTask(id, ownerId string) (*model.Task, error) {
	task := &model.Task{}
	err := database.GetDB().
		Where("id = ? AND owner_id = ?", id, ownerId).
		First(task).
		Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask applies an allow-listed update set in a single owner-filtered
// UPDATE. A task owned by someone else looks exactly like a missing one.
func (s *TaskService) UpdateTask(id, ownerId string, updates map[string]any) (*model.Task, error) {
	for field := range updates {
		if !taskUpdatableFields[field] {
			return nil, newValidationError("invalid updates")
		}
	}

	cols := make(map[string]any, len(updates))
	if v, ok := updates["description"]; ok {
		raw, ok := v.(string)
		if !ok {
			return nil, newValidationError("description is invalid")
		}
		description, err := validateDescription(raw)
		if err != nil {
			return nil, err
		}
		cols["description"] = description
	}
	if v, ok := updates["completed"]; ok {
		completed, ok := v.(bool)
		if !ok {
			return nil, newValidationError("completed must be a boolean")
		}
		cols["completed"] = completed
	}

	if len(cols) == 0 {
		return s.GetTask(id, ownerId)
	}

	result := database.GetDB().Model(&model.Task{}).
		Where("id = ? AND owner_id = ?", id, ownerId).
		Updates(cols)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetTask(id, ownerId)
}

// DeleteTask removes the task and returns it. The delete itself carries the
// owner filter, so two users can never race over the same row.
func (s *TaskService) DeleteTask(id, ownerId string) (*model.Task, error) {
	task, err := s.GetTask(id, ownerId)
	if err != nil {
		return nil, err
	}

	result := database.GetDB().
		Where("id = ? AND owner_id = ?", id, ownerId).
		Delete(&model.Task{})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return task, nil
}

// SetImage stores the already-normalized task image.
func (s *TaskService) SetImage(id, ownerId string, image []byte) error {
	result := database.GetDB().Model(&model.Task{}).
		Where("id = ? AND owner_id = ?", id, ownerId).
		Update("image", image)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearImage drops the task image.
func (s *TaskService) ClearImage(id, ownerId string) error {
	return s.SetImage(id, ownerId, nil)
}

// GetImage returns the image bytes of any task by id. Like avatars, task
// images are served publicly once the task id is known.
func (s *TaskService) GetImage(id string) ([]byte, error) {
	task := &model.Task{}
	err := database.GetDB().Where("id = ?", id).First(task).Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	if len(task.Image) == 0 {
		return nil, ErrNotFound
	}
	return task.Image, nil
}

package service

import (
	"testing"

	"taskman/database"
	"taskman/database/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}

	user, err := service.CreateUser("James", "James@Example.com", "myPass1234!", 0)
	require.NoError(t, err)
	assert.NotEmpty(t, user.Id)
	assert.Equal(t, "James", user.Name)
	assert.Equal(t, "james@example.com", user.Email)
	assert.Equal(t, 0, user.Age)

	// The stored credential is never the plaintext.
	assert.NotEqual(t, "myPass1234!", user.PasswordHash)
	assert.NotEmpty(t, user.PasswordHash)
}

func TestCreateUserValidation(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"", "james@example.com", "myPass1234!"},
		{"   ", "james@example.com", "myPass1234!"},
		{"undefined", "james@example.com", "myPass1234!"},
		{"null", "james@example.com", "myPass1234!"},
		{"James", "example.com", "myPass1234!"},
		{"James", "james@", "myPass1234!"},
		{"James", "james@example.com", "short"},
		{"James", "james@example.com", "password1"},
		{"James", "james@example.com", "myPASSWORD1"},
	}
	for _, tc := range cases {
		_, err := service.CreateUser(tc.name, tc.email, tc.password, 0)
		assert.Error(t, err, "name=%q email=%q password=%q", tc.name, tc.email, tc.password)
		assert.True(t, IsValidation(err))
	}

	var count int64
	database.GetDB().Model(&model.User{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}

	_, err := service.CreateUser("alex", "alex@example.com", "alexpass1", 0)
	require.NoError(t, err)

	_, err = service.CreateUser("alex again", "Alex@Example.com", "alexpass1", 0)
	assert.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestFindByCredentials(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}

	created, err := service.CreateUser("alex", "alex@example.com", "alexpass1", 0)
	require.NoError(t, err)

	user, err := service.FindByCredentials("Alex@Example.com", "alexpass1")
	require.NoError(t, err)
	assert.Equal(t, created.Id, user.Id)

	_, err = service.FindByCredentials("alex@example.com", "wrongpass1")
	assert.Equal(t, ErrInvalidCredentials, err)

	// Unknown email fails with the same error as a wrong password.
	_, err = service.FindByCredentials("nobody@example.com", "alexpass1")
	assert.Equal(t, ErrInvalidCredentials, err)
}

func TestUpdateUser(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}

	user, err := service.CreateUser("alex", "alex@example.com", "alexpass1", 20)
	require.NoError(t, err)

	updated, err := service.UpdateUser(user, map[string]any{
		"name": "alexander",
		"age":  float64(21),
	})
	require.NoError(t, err)
	assert.Equal(t, "alexander", updated.Name)
	assert.Equal(t, 21, updated.Age)

	// Password updates are re-hashed.
	updated, err = service.UpdateUser(user, map[string]any{"password": "newpass77"})
	require.NoError(t, err)
	assert.NotEqual(t, user.PasswordHash, updated.PasswordHash)
	_, err = service.FindByCredentials("alex@example.com", "newpass77")
	assert.NoError(t, err)
}

func TestUpdateUserRejectsUnknownFields(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}

	user, err := service.CreateUser("alex", "alex@example.com", "alexpass1", 20)
	require.NoError(t, err)

	// One bad field rejects the whole update, including the valid parts.
	_, err = service.UpdateUser(user, map[string]any{
		"name":   "alexander",
		"height": float64(180),
	})
	assert.Error(t, err)
	assert.True(t, IsValidation(err))

	reloaded, err := service.GetUser(user.Id)
	require.NoError(t, err)
	assert.Equal(t, "alex", reloaded.Name)
}

func TestDeleteUserCascades(t *testing.T) {
	setup()
	defer teardown()

	userService := UserService{}
	taskService := TaskService{}
	authService := NewAuthService("test-secret")

	user, err := userService.CreateUser("alex", "alex@example.com", "alexpass1", 0)
	require.NoError(t, err)
	other, err := userService.CreateUser("jess", "jess@example.com", "jesspass1", 0)
	require.NoError(t, err)

	_, err = taskService.CreateTask(user.Id, "First", false)
	require.NoError(t, err)
	_, err = taskService.CreateTask(user.Id, "Second", true)
	require.NoError(t, err)
	kept, err := taskService.CreateTask(other.Id, "Third", true)
	require.NoError(t, err)

	_, err = authService.IssueToken(user.Id)
	require.NoError(t, err)

	require.NoError(t, userService.DeleteUser(user))

	_, err = userService.GetUser(user.Id)
	assert.Equal(t, ErrNotFound, err)

	var taskCount int64
	database.GetDB().Model(&model.Task{}).Where("owner_id = ?", user.Id).Count(&taskCount)
	assert.Equal(t, int64(0), taskCount)

	var tokenCount int64
	database.GetDB().Model(&model.Token{}).Where("user_id = ?", user.Id).Count(&tokenCount)
	assert.Equal(t, int64(0), tokenCount)

	// The other user's task survives.
	_, err = taskService.GetTask(kept.Id, other.Id)
	assert.NoError(t, err)
}

func TestAvatar(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}

	user, err := service.CreateUser("alex", "alex@example.com", "alexpass1", 0)
	require.NoError(t, err)

	_, err = service.GetAvatar(user.Id)
	assert.Equal(t, ErrNotFound, err)

	blob := []byte{0x89, 0x50, 0x4e, 0x47}
	require.NoError(t, service.SetAvatar(user, blob))

	avatar, err := service.GetAvatar(user.Id)
	require.NoError(t, err)
	assert.Equal(t, blob, avatar)

	require.NoError(t, service.ClearAvatar(user))
	_, err = service.GetAvatar(user.Id)
	assert.Equal(t, ErrNotFound, err)
}

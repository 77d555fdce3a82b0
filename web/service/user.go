package service

import (
	"regexp"
	"strings"

	"taskman/database"
	"taskman/database/model"
	"taskman/logger"
	"taskman/util/crypto"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Fields a PATCH /users/me request may touch. Anything else rejects the
// whole request.
var userUpdatableFields = map[string]bool{
	"name":     true,
	"age":      true,
	"email":    true,
	"password": true,
}

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$`)

// UserService owns account records and their credentials.
type UserService struct{}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", newValidationError("name is required")
	}
	// Malformed clients serialize missing values as these literals.
	if name == "undefined" || name == "null" {
		return "", newValidationError("name is invalid")
	}
	return name, nil
}

func validateEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegexp.MatchString(email) {
		return "", newValidationError("email is invalid")
	}
	return email, nil
}

// validatePassword enforces the minimum credential strength: at least 7
// characters and never containing the banned token "password".
func validatePassword(password string) error {
	if len([]rune(password)) < 7 {
		return newValidationError("password must be at least 7 characters long")
	}
	if strings.Contains(strings.ToLower(password), "password") {
		return newValidationError(`password cannot contain "password"`)
	}
	return nil
}

func (s *UserService) checkEmailTaken(db *gorm.DB, email string, excludeId string) error {
	var count int64
	q := db.Model(&model.User{}).Where("email = ?", email)
	if excludeId != "" {
		q = q.Where("id <> ?", excludeId)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return newValidationError("email is already in use")
	}
	return nil
}

// CreateUser validates the signup fields, hashes the password and stores a
// new user. The plaintext password is never persisted.
func (s *UserService) CreateUser(name, email, password string, age int) (*model.User, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	email, err = validateEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if age < 0 {
		return nil, newValidationError("age must be a positive number")
	}

	db := database.GetDB()
	if err := s.checkEmailTaken(db, email, ""); err != nil {
		return nil, err
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Id:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Age:          age,
	}
	if err := db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByCredentials resolves a user from login credentials. Unknown email
// and wrong password collapse into the same error.
func (s *UserService) FindByCredentials(email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	db := database.GetDB()
	user := &model.User{}
	err := db.Where("email = ?", email).First(user).Error
	if database.IsNotFound(err) {
		return nil, ErrInvalidCredentials
	} else if err != nil {
		logger.Warning("find by credentials err:", err)
		return nil, err
	}

	if !crypto.CheckPasswordHash(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser loads a user by id.
func (s *UserService) GetUser(id string) (*model.User, error) {
	db := database.GetDB()
	user := &model.User{}
	err := db.Where("id = ?", id).First(user).Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser applies an allow-listed update set to the user. A single
// unknown field rejects the whole request; nothing is written until every
// field has been validated.
func (s *UserService) UpdateUser(user *model.User, updates map[string]any) (*model.User, error) {
	for field := range updates {
		if !userUpdatableFields[field] {
			return nil, newValidationError("invalid updates")
		}
	}

	db := database.GetDB()
	cols := make(map[string]any, len(updates))

	if v, ok := updates["name"]; ok {
		name, ok := v.(string)
		if !ok {
			return nil, newValidationError("name is invalid")
		}
		name, err := validateName(name)
		if err != nil {
			return nil, err
		}
		cols["name"] = name
	}
	if v, ok := updates["email"]; ok {
		raw, ok := v.(string)
		if !ok {
			return nil, newValidationError("email is invalid")
		}
		email, err := validateEmail(raw)
		if err != nil {
			return nil, err
		}
		if err := s.checkEmailTaken(db, email, user.Id); err != nil {
			return nil, err
		}
		cols["email"] = email
	}
	if v, ok := updates["age"]; ok {
		// JSON numbers decode as float64.
		age, ok := v.(float64)
		if !ok || age != float64(int(age)) || age < 0 {
			return nil, newValidationError("age must be a positive number")
		}
		cols["age"] = int(age)
	}
	if v, ok := updates["password"]; ok {
		password, ok := v.(string)
		if !ok {
			return nil, newValidationError("password is invalid")
		}
		if err := validatePassword(password); err != nil {
			return nil, err
		}
		hash, err := crypto.HashPassword(password)
		if err != nil {
			return nil, err
		}
		cols["password_hash"] = hash
	}

	if len(cols) == 0 {
		return user, nil
	}

	err := db.Model(&model.User{}).
		Where("id = ?", user.Id).
		Updates(cols).
		Error
	if err != nil {
		return nil, err
	}
	return s.GetUser(user.Id)
}

// DeleteUser removes the account together with its sessions and every task
// it owns, in one transaction.
func (s *UserService) DeleteUser(user *model.User) error {
	db := database.GetDB()
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ?", user.Id).Delete(&model.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.Id).Delete(&model.Token{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", user.Id).Delete(&model.User{}).Error
	})
}

// SetAvatar stores the already-normalized avatar blob.
func (s *UserService) SetAvatar(user *model.User, avatar []byte) error {
	return database.GetDB().Model(&model.User{}).
		Where("id = ?", user.Id).
		Update("avatar", avatar).
		Error
}

// ClearAvatar drops the avatar blob.
func (s *UserService) ClearAvatar(user *model.User) error {
	return database.GetDB().Model(&model.User{}).
		Where("id = ?", user.Id).
		Update("avatar", nil).
		Error
}

// GetAvatar returns the avatar bytes of any user. Missing user and missing
// avatar are both ErrNotFound.
func (s *UserService) GetAvatar(id string) ([]byte, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	if len(user.Avatar) == 0 {
		return nil, ErrNotFound
	}
	return user.Avatar, nil
}

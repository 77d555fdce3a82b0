// Package entity defines request and response bodies of the web layer.
package entity

import "taskman/database/model"

// AuthResult is the response body of signup and login.
type AuthResult struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// SignupForm is the request body of POST /users.
type SignupForm struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      int    `json:"age"`
}

// LoginForm is the request body of POST /users/login.
type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TaskForm is the request body of POST /tasks.
type TaskForm struct {
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Package models содержит доменные структуры учётной записи и входные данные запросов.
package models

import "time"

// Роли учётных записей.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account зарегистрированная учётная запись.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RegisterRequest тело запроса на регистрацию.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,alphanum,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest тело запроса на вход.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
}

// UpdateRequest тело запроса на изменение учётной записи; пустые поля не меняются.
type UpdateRequest struct {
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Password string `json:"password,omitempty" validate:"omitempty,min=6,max=72"`
}

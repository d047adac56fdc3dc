package models

import "errors"

var (
	// ErrDuplicateID - нарушение уникальности id при создании инцидента
	ErrDuplicateID = errors.New("incident with this id already exists")

	// ErrInvalidCredentials - неверный пароль администратора при входе
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken - токен сессии не прошел проверку или отозван
	ErrInvalidToken = errors.New("invalid or revoked token")
)

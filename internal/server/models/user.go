// Package models содержит серверные доменные модели DevLog:
// пользователя, проект и заметку.
//
// JSON-теги повторяют контракт, который ожидает фронт (camelCase, _id).
// Хэш пароля никогда не сериализуется.
package models

import "time"

// User — учётная запись пользователя.
//
// Username (handle) и Email хранятся в нижнем регистре и уникальны.
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Bio          string    `json:"bio"`
	Country      string    `json:"country"`
	ProfilePic   string    `json:"profilePic"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicUser — то, что можно показывать на публичной странице портфолио.
// Email и хэш пароля сюда не попадают.
type PublicUser struct {
	ID         string    `json:"_id"`
	Name       string    `json:"name"`
	Username   string    `json:"username"`
	Bio        string    `json:"bio"`
	Country    string    `json:"country"`
	ProfilePic string    `json:"profilePic"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Public возвращает публичное представление пользователя.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Name:       u.Name,
		Username:   u.Username,
		Bio:        u.Bio,
		Country:    u.Country,
		ProfilePic: u.ProfilePic,
		CreatedAt:  u.CreatedAt,
	}
}

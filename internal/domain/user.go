package domain

import "time"

// RoleAdmin — единственная привилегированная роль.
// Пользователь без роли — обычный покупатель.
const RoleAdmin = "admin"

// User — зеркало пользователя из внешнего провайдера идентификации.
// Источник истины — провайдер; запись синхронизируется вебхуком.
type User struct {
	ID         int64
	ExternalID string // Идентификатор пользователя у провайдера
	Email      string
	Name       *string
	ImageURL   *string
	Phone      *string
	Role       *string // RoleAdmin или nil (покупатель)
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

func NewUser(externalID, email string, name, imageURL, role *string) *User {
	return &User{
		ExternalID: externalID,
		Email:      email,
		Name:       name,
		ImageURL:   imageURL,
		Role:       role,
	}
}

// IsAdmin сообщает, имеет ли пользователь административную роль.
func (u *User) IsAdmin() bool {
	return u.Role != nil && *u.Role == RoleAdmin
}

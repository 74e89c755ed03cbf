package domain

import "time"

// User represents a user profile as served by the backend
type User struct {
	ID         int64      `json:"id"`
	Username   string     `json:"nombreUsuario"`
	Email      string     `json:"correo"`
	CreatedAt  *time.Time `json:"creadoEn,omitempty"`
	AvatarPath string     `json:"fotoPerfil,omitempty"`
	Bio        string     `json:"descripcion,omitempty"`
}

package entity

import "time"

// User representa un usuario del sistema. Las credenciales las administra el servicio de autenticación externo;
// aquí solo se leen rol y sucursal.
type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	PhoneNumber  string
	Role         Role
	BranchID     *string
	IsActive     bool
	PasswordHash string
	DateJoined   time.Time
}

// FullName nombre completo para mensajes.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

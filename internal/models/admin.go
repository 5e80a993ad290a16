package models

import (
	"github.com/golang-jwt/jwt/v5"
)

const RoleAdmin = "admin"

// AdminClaims - полезная нагрузка токена администратора.
// Токен самодостаточен: на сервере сессии не хранятся.
type AdminClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	District string `json:"district"`
	jwt.RegisteredClaims
}

package v1

import (
	"net/http"
	"strings"

	"github.com/climatehub/climate_incident_hub/internal/models"
	"github.com/climatehub/climate_incident_hub/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const adminClaimsKey = "adminClaims"

// AdminAuthMiddleware - middleware для аутентификации администратора по Bearer-токену.
// Невалидный токен - 401, валидный токен без роли admin - 403.
// Ни один защищённый хэндлер не выполняется без прошедшего проверку токена.
func AdminAuthMiddleware(authService service.AuthService, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Authorization header missing from admin request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Warn("Malformed authorization header on admin request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		claims, err := authService.VerifyToken(parts[1])
		if err != nil {
			log.WithError(err).Warn("Admin token verification failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		if claims.Role != models.RoleAdmin {
			log.WithField("role", claims.Role).Warn("Token role is not admin")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access only"})
			return
		}

		c.Set(adminClaimsKey, claims)
		c.Next()
	}
}

// adminClaimsFromContext извлекает полезную нагрузку токена, сохранённую middleware
func adminClaimsFromContext(c *gin.Context) (*models.AdminClaims, bool) {
	value, exists := c.Get(adminClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.AdminClaims)
	return claims, ok
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/climatehub/climate_incident_hub/internal/config"
	"github.com/climatehub/climate_incident_hub/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const tokenIssuer = "climate-incident-hub"

// AuthService определяет контракт для аутентификации администратора
type AuthService interface {
	Login(ctx context.Context, username, password, district string) (token string, resolvedDistrict string, err error)
	VerifyToken(tokenString string) (*models.AdminClaims, error)
}

type authService struct {
	cfg          *config.Config
	logger       *logrus.Logger
	passwordHash []byte
}

// NewAuthService хэширует настроенный пароль администратора один раз при старте.
// Сам пароль после этого нигде не хранится в открытом виде.
func NewAuthService(cfg *config.Config, logger *logrus.Logger) (AuthService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	return &authService{
		cfg:          cfg,
		logger:       logger,
		passwordHash: hash,
	}, nil
}

// Login проверяет учётные данные администратора и выпускает токен с областью видимости.
// Ответ об ошибке единый для неверного логина и неверного пароля.
func (s *authService) Login(ctx context.Context, username, password, district string) (string, string, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "auth",
		"method":  "Login",
	})

	if username != s.cfg.AdminUsername {
		log.Warn("Login attempt with unknown username")
		return "", "", fmt.Errorf("service: %w", ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		log.Warn("Login attempt with wrong password")
		return "", "", fmt.Errorf("service: %w", ErrInvalidCredentials)
	}

	if district == "" {
		district = models.DistrictAll
	}

	now := time.Now()
	claims := models.AdminClaims{
		Username: username,
		Role:     models.RoleAdmin,
		District: district,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AdminTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		log.WithError(err).Error("Failed to sign admin token")
		return "", "", fmt.Errorf("service: could not sign token: %w", err)
	}

	log.WithField("district", district).Info("Admin logged in")
	return token, district, nil
}

// VerifyToken проверяет подпись и срок действия токена и возвращает его полезную нагрузку
func (s *authService) VerifyToken(tokenString string) (*models.AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("service: %w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*models.AdminClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("service: %w", ErrInvalidToken)
	}
	return claims, nil
}

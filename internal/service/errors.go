package service

import "errors"

// Доменные ошибки. Хэндлеры сопоставляют их с HTTP-статусами через errors.Is.
var (
	// ErrValidation - отсутствуют обязательные поля инцидента
	ErrValidation = errors.New("missing required incident fields")

	// ErrNotFound - инцидент с таким id не существует
	ErrNotFound = errors.New("incident not found")

	// ErrDistrictForbidden - область видимости администратора не покрывает район инцидента
	ErrDistrictForbidden = errors.New("district scope does not cover this incident")

	// ErrInvalidCredentials - неверный логин или пароль.
	// Сообщение единое: не раскрываем, что именно не совпало.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken - токен отсутствует, повреждён, просрочен или подпись не сошлась
	ErrInvalidToken = errors.New("invalid or expired token")
)

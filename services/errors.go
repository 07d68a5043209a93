package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed     = errors.New("validation failed")
	ErrInvalidAction        = errors.New("action must be accept or decline")
	ErrPasswordTooShort     = errors.New("password is too short")
	ErrEmailRequired        = errors.New("email is required")
	ErrInvalidSport         = errors.New("invalid sport category")
	ErrInvalidNewsCategory  = errors.New("invalid news category")
	ErrUnsupportedMediaType = errors.New("only image and video files are supported")

	// Ошибки конфликтов
	ErrUserEmailConflict = errors.New("email address is already in use")
	ErrAlreadyInvited    = errors.New("a pending invitation already exists for this email")
	ErrAlreadyTeamMember = errors.New("user is already a team member")

	// Ошибки аутентификации и авторизации
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")
	ErrManagerRoleRequired    = errors.New("only the team owner or an admin can perform this action")

	// Ошибки, специфичные для сущностей
	ErrUserNotFound       = errors.New("user not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrInvitationNotFound = errors.New("no pending invitation found")
	ErrNewsNotFound       = errors.New("news not found")
	ErrMediaNotFound      = errors.New("media not found")

	// Внешнее хранилище файлов
	ErrUploadFailed = errors.New("failed to store uploaded file")
)

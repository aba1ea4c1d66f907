package validators

import "errors"

var (
	ErrInvalidLevel        = errors.New("level must be one of: easy, medium, hard")
	ErrInvalidPracticeType = errors.New("practice type must be one of: freestyle, guided, interview, presentation")

	ErrEmptyName       = errors.New("name is required")
	ErrInvalidEmail    = errors.New("a valid email is required")
	ErrPasswordTooWeak = errors.New("password must be at least 8 characters")

	ErrNoAudio           = errors.New("audio file is required")
	ErrAudioTooLarge     = errors.New("audio file exceeds the size limit")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

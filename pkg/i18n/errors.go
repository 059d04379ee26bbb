package i18n

import "errors"

var (
	ErrNilAdapter            = errors.New("i18n: adapter is nil")
	ErrInvalidTranslations   = errors.New("i18n: invalid translations")
	ErrNoTranslations        = errors.New("i18n: no translations found")
	ErrFailedToParseYAML     = errors.New("i18n: failed to parse YAML content")
	ErrFailedToReadFile      = errors.New("i18n: failed to read translation file")
	ErrFailedToReadDirectory = errors.New("i18n: failed to read translations directory")
	ErrLoadingCancelled      = errors.New("i18n: loading translations cancelled")
)

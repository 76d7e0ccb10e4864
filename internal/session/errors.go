package session

import "errors"

var errEmptyTranslation = errors.New("translator returned an empty result")

package webform

import "errors"

var errEmptyResult = errors.New("model returned an empty result")

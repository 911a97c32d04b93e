package controller

import "errors"

var (
	ErrBootFailed = errors.New("failed to initialize indicators")
)

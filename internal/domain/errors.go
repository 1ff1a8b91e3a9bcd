package domain

import "errors"

var (
	ErrNoApplication     = errors.New("application does not exist")
	ErrApplicationExists = errors.New("application already exists")
	ErrNoResume          = errors.New("no resume on file")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrNotAdmin          = errors.New("insufficient permissions")
	ErrStorage           = errors.New("blob storage failure")
)

package common

import "errors"

// Storage-level errors shared by every repository backend.
var (
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")
)

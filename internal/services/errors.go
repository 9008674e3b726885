package services

import "errors"

var (
	// ErrNoAdminCreator means a task was created without an explicit creator
	// and no administrator exists to default to.
	ErrNoAdminCreator = errors.New("no admin found to set as task creator")

	// ErrNotTaskCreator guards user-scoped deletes.
	ErrNotTaskCreator = errors.New("you can only delete tasks created by yourself")

	ErrInvalidCredentials = errors.New("invalid employee number or password")
)

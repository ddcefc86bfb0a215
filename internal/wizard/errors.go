package wizard

import "github.com/pkg/errors"

var (
	ErrNotInitialized     = errors.New("wizard is not initialized")
	ErrAlreadyInitialized = errors.New("wizard is already initialized")
	ErrSaveInProgress     = errors.New("save is already in progress")
	ErrFinished           = errors.New("wizard is finished")
	ErrMissingPort        = errors.New("required port is not set")
)

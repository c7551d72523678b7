package setup

import "errors"

var (
	ErrSetupNotFound = errors.New("setup not found")
	ErrNameTaken     = errors.New("setup name already in use")
)

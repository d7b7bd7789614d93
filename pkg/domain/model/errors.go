package model

import "github.com/m-mizutani/goerr/v2"

// Error classes. Call sites wrap one of these with goerr.Wrap so errors.Is
// identifies the class while goerr values carry the command and response body.
var (
	ErrConfiguration  = goerr.New("required configuration is missing")
	ErrUnknownTask    = goerr.New("unknown task")
	ErrProcess        = goerr.New("external command failed")
	ErrParse          = goerr.New("expected element not found in response")
	ErrCreation       = goerr.New("failed to create staging repository")
	ErrSigning        = goerr.New("failed to sign artifacts")
	ErrCloseTimeout   = goerr.New("staging repository did not reach closed state")
	ErrPromoteTimeout = goerr.New("staging repository was not released")
	ErrTransition     = goerr.New("invalid staging state transition")
)

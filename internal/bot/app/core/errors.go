package core

import "errors"

var (
	ErrMissingToken  = errors.New("telegram bot token is not configured")
	ErrTransportDown = errors.New("chat transport is not connected")
)

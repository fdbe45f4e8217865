package core

import "errors"

var (
	ErrDBConn = errors.New("db connection failure")

	ErrFieldIsEmpty  = errors.New("field is empty")
	ErrInvalidStatus = errors.New("invalid order status")
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidSort   = errors.New("invalid sort key")
)

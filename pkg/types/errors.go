package types

import "errors"

var (
	ErrApplicationNotFound  = errors.New("application not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrServiceNotFound      = errors.New("service not found")
	ErrProfileNotFound      = errors.New("user profile not found")
	ErrInvalidStatus        = errors.New("invalid status")
)

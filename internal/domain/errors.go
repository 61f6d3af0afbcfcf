package domain

import "errors"

// Определение бизнес-ошибок
var (
	ErrPersonNotFound          = errors.New("person not found")
	ErrDepartmentNotFound      = errors.New("department not found")
	ErrChannelNotFound         = errors.New("sales channel not found")
	ErrHoursNotFound           = errors.New("logged hours entry not found")
	ErrGroupNotFound           = errors.New("role group not found")
	ErrDuplicateEmail          = errors.New("person with this email already exists")
	ErrDuplicateDepartmentName = errors.New("department with this name already exists")
	ErrDuplicateChannelName    = errors.New("sales channel with this name already exists")
	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrPersonInactive          = errors.New("person is deactivated")
	ErrForbidden               = errors.New("operation not allowed for this role")
	ErrHourOutOfRange          = errors.New("hour must be between 0.25 and 8 inclusive")
	ErrDateInFuture            = errors.New("date must not be in the future")
	ErrDateTooOld              = errors.New("date must be within the last 30 days")
	ErrDepartmentRequired      = errors.New("department is required for logging hours")
)

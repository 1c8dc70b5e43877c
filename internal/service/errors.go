package service

import "errors"

var (
	ErrIntentUnavailable  = errors.New("intent unavailable")
	ErrSQLUnavailable     = errors.New("sql unavailable")
	ErrNoData             = errors.New("no data found")
	ErrInvalidAlertConfig = errors.New("invalid alert configuration")
	ErrUnsafeSQL          = errors.New("unsafe sql")
)

package loyalty

import "errors"

var (
	ErrInvalidPoints      = errors.New("loyalty: points must be positive")
	ErrInsufficientPoints = errors.New("loyalty: insufficient points")
	ErrRewardNotFound     = errors.New("loyalty: reward not found")
	ErrNilState           = errors.New("loyalty: state not configured")
)

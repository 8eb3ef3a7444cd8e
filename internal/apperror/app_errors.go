package apperror

import "errors"

var (
	ErrOutOfBounds        = errors.New("coordinate is out of bounds")
	ErrInvalidCoordinate  = errors.New("coordinate must be two integers: row column")
	ErrInvalidAction      = errors.New("unknown action")
	ErrMalformedSnapshot  = errors.New("malformed snapshot")
	ErrSnapshotNotFound   = errors.New("snapshot not found")
	ErrBombsAlreadyPlaced = errors.New("bombs are already placed")
	ErrTooManyBombs       = errors.New("more bombs than cells")
	ErrInputClosed        = errors.New("input closed")
)

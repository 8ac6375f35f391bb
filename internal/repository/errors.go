package repository

import "errors"

// ErrInsufficientStock is returned by a conditional decrement that matched no row.
var ErrInsufficientStock = errors.New("insufficient stock")

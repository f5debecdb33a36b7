package handlers

import "errors"

var (
	ErrOutOfStock      = errors.New("the book is out of stock")
	ErrAlreadyReturned = errors.New("the book has already been returned")
	ErrBookNotFound    = errors.New("book not found")
	ErrEmailTaken      = errors.New("email already registered")
)

package collection

import "errors"

// Manager errors.
var (
	// ErrInvalidArgument reports a manager built from unusable options.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound reports an id that matches no item.
	ErrNotFound = errors.New("item not found")
	// ErrDuplicateID reports a constructed item whose id is empty or taken.
	ErrDuplicateID = errors.New("duplicate item id")
	// ErrIDChanged reports a constructor that reassigned an id on update.
	ErrIDChanged = errors.New("item id changed")
)

package service

import "errors"

var (
	ErrVersionIsNotSpecified = errors.New("app version is not specified")

	ErrValidationNoItemName = errors.New("no item name was given")
	ErrValidationBadKind    = errors.New("unsupported item kind")
	ErrValidationNoItemID   = errors.New("no item ID was given")
)

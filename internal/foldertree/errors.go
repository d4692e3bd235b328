package foldertree

import "errors"

var (
	// ErrNotFound means the folder id does not resolve.
	ErrNotFound = errors.New("folder not found")
	// ErrParentNotFound means the referenced parent folder does not exist.
	ErrParentNotFound = errors.New("parent folder not found")
	// ErrValidation wraps input constraint violations.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateName means a sibling with the same trimmed name exists.
	ErrDuplicateName = errors.New("a folder with this name already exists in this location")
	// ErrHasSubfolders blocks deletion of a folder with direct subfolders.
	ErrHasSubfolders = errors.New("cannot delete folder with subfolders")
	// ErrHasResources blocks deletion of a folder with direct resources.
	ErrHasResources = errors.New("cannot delete folder with resources")
	// ErrCycle means a move would make a folder its own ancestor.
	ErrCycle = errors.New("cannot move a folder into itself or its own subtree")
)

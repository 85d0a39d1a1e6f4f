// Package repository defines storage errors shared by every backend.
package repository

import "errors"

var (
	ErrStateNotFound   = errors.New("featured state not found")
	ErrSessionNotFound = errors.New("session not found")
)

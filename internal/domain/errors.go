package domain

import "errors"

var (
	ErrNoActiveSession = errors.New("no session in progress")
	ErrContextNotFound = errors.New("session context file not found")
	ErrArchiveNotFound = errors.New("archive file not found")
	ErrArchiveExists   = errors.New("archive file already exists")
)

package logstore

import "errors"

// Sentinel kinds for log store errors.
var (
	ErrWrite = errors.New("log store write failed")
	ErrList  = errors.New("log store list failed")
)

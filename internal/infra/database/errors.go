package database

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Sentinel errors returned by every repository in this package (and by the
// in-memory store used in tests).
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrStaleWrite means a conditional update matched no row because the
	// record no longer holds the expected values.
	ErrStaleWrite = errors.New("record changed concurrently")
	// ErrInvalidInput covers rows the database rejected: bad references,
	// missing NOT NULL columns, malformed values.
	ErrInvalidInput = errors.New("invalid input")
)

// Postgres error codes we translate.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeNotNullViolation    = "23502"
	codeCheckViolation      = "23514"
	codeInvalidText         = "22P02"
	codeInvalidDatetime     = "22007"
	codeDatetimeOverflow    = "22008"
)

// classify wraps err with a sentinel when it is a recognised Postgres error,
// keeping the server message. Anything else is wrapped with op.
func classify(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%s: %w: %s", op, ErrDuplicateKey, pqErr.Message)
		case codeForeignKeyViolation, codeNotNullViolation, codeCheckViolation,
			codeInvalidText, codeInvalidDatetime, codeDatetimeOverflow:
			return fmt.Errorf("%s: %w: %s", op, ErrInvalidInput, pqErr.Message)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

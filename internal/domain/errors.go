package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrPrecondition is the class of all rejected operations that would break a game invariant.
	ErrPrecondition = errors.New("precondition failed")
	// ErrPlayerNotFound is returned when a mutation addresses an unknown player.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrStateNotFound is returned by repositories when nothing is stored under the namespace.
	ErrStateNotFound = errors.New("game state not found")
	// ErrSchemaVersion indicates a persisted record written by an incompatible version.
	ErrSchemaVersion = errors.New("unsupported game state version")

	ErrNotAnswered         = fmt.Errorf("%w: question not answered by player", ErrPrecondition)
	ErrQuestionOutOfRange  = fmt.Errorf("%w: question number out of range", ErrPrecondition)
	ErrQuestionSpent       = fmt.Errorf("%w: question already used in another round", ErrPrecondition)
	ErrInvalidRound        = fmt.Errorf("%w: unknown round", ErrPrecondition)
	ErrRoundLocked         = fmt.Errorf("%w: previous round has not been played", ErrPrecondition)
	ErrInvalidQuestionType = fmt.Errorf("%w: unknown question type", ErrPrecondition)
)

// PersistenceError wraps a failure at the durable store boundary.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Package core provides fundamental utilities for ptatemp.
// This file contains option functions for customizing log entries.
package core

import (
	"github.com/google/uuid"
	"github.com/tfkr-ae/ptatemp/domain"
)

// LogWithContext is an option to add a context map to a log entry.
func LogWithContext(context map[string]any) func(log *domain.Log) error {
	return func(log *domain.Log) error {
		log.Context = context
		return nil
	}
}

// LogWithRecordID is an option to associate a log entry with a render record ID.
func LogWithRecordID(id uuid.UUID) func(log *domain.Log) error {
	return func(log *domain.Log) error {
		log.RecordID = &id
		return nil
	}
}

// LogWithExtensionID is an option to associate a log entry with an extension ID.
func LogWithExtensionID(id uuid.UUID) func(log *domain.Log) error {
	return func(log *domain.Log) error {
		log.ExtensionID = &id
		return nil
	}
}

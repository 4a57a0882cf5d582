package document

import "errors"

var (
	// ErrValidation marks missing or malformed caller input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a missing lineage or version.
	ErrNotFound = errors.New("document not found")

	// ErrIntegrity marks a content hash mismatch between a stored blob
	// and the hash recorded for its version.
	ErrIntegrity = errors.New("content integrity check failed")

	// ErrStorage marks a blob store failure after the retry budget is
	// exhausted. Write paths roll back the database transaction.
	ErrStorage = errors.New("blob storage failure")

	// ErrVersionConflict marks a lost race on the latest pointer: another
	// writer flipped it between our read and our update. Callers may retry.
	ErrVersionConflict = errors.New("concurrent version update")
)

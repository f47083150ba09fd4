package postgres

import (
	"errors"

	"github.com/lib/pq"
)

const (
	codeInvalidTextRepresentation = "22P02"
	codeForeignKeyViolation       = "23503"
)

// IsInvalidInput reports a parameter the column type rejected, such as a
// malformed uuid. Lookups treat it as a missing row.
func IsInvalidInput(err error) bool {
	return hasCode(err, codeInvalidTextRepresentation)
}

func IsForeignKeyViolation(err error) bool {
	return hasCode(err, codeForeignKeyViolation)
}

func hasCode(err error, code pq.ErrorCode) bool {
	var pgErr *pq.Error
	return errors.As(err, &pgErr) && pgErr.Code == code
}

package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrNotFound reports that a referenced outlet, category, or ledger pair
// does not exist. Handlers map it to a 404 response.
var ErrNotFound = errors.New("not found")

const pqForeignKeyViolation = "23503"

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation
}

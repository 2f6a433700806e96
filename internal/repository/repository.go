package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/schoolmgr/school-api/internal/models"
)

// ErrInvalidSortColumn marks a paged request naming a sort column outside the
// entity's enumerated set. Services translate it to a validation error.
var ErrInvalidSortColumn = errors.New("invalid sort column")

// ErrNoStudentsMatched is returned when a class creation supplies student ids
// and none of them exist.
var ErrNoStudentsMatched = errors.New("no matching students")

// orderBy resolves the requested sort column against the entity's enumerated
// columns, ignoring case. An empty request falls back to the entity default;
// an unknown column is rejected before any query runs.
func orderBy(req models.PagedRequest, columns map[string]string, fallback string) (string, error) {
	if req.SortColumn == "" {
		return fallback, nil
	}
	var column string
	ok := false
	for name, expr := range columns {
		if strings.EqualFold(name, req.SortColumn) {
			column, ok = expr, true
			break
		}
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidSortColumn, req.SortColumn)
	}
	direction := "ASC"
	if req.Descending() {
		direction = "DESC"
	}
	return column + " " + direction, nil
}

package sqldb

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/julianstephens/ogtodo/internal/errors"
)

type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestRequireRows(t *testing.T) {
	driverErr := errors.New("driver: rows affected unsupported")

	tests := []struct {
		name     string
		result   fakeResult
		wantErr  error
		notFound bool
	}{
		{name: "one row", result: fakeResult{rows: 1}},
		{name: "no rows", result: fakeResult{}, wantErr: apperrors.ErrNotFound, notFound: true},
		{name: "count fails", result: fakeResult{err: driverErr}, wantErr: driverErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := requireRows(tt.result, "todo.not_found", "todo not found")
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.notFound, errors.Is(err, apperrors.ErrNotFound))
		})
	}
}

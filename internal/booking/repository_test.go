package booking

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/nekogravitycat/boat-rental-backend/internal/pkg/apperror"
)

func TestMapWriteError(t *testing.T) {
	tests := []struct {
		name   string
		pgErr  *pgconn.PgError
		want   error
		status int
	}{
		{"exclusion", &pgconn.PgError{Code: pgerrcode.ExclusionViolation, ConstraintName: "bookings_no_confirmed_overlap"}, ErrConflict, http.StatusConflict},
		{"serialization", &pgconn.PgError{Code: pgerrcode.SerializationFailure}, ErrConcurrentUpdate, http.StatusInternalServerError},
		{"deadlock", &pgconn.PgError{Code: pgerrcode.DeadlockDetected}, ErrConcurrentUpdate, http.StatusInternalServerError},
		{"unknown user", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "bookings_user_id_fkey"}, ErrUserNotFound, http.StatusNotFound},
		{"unknown boat", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "bookings_boat_id_fkey"}, ErrBoatNotFound, http.StatusNotFound},
		{"date order", &pgconn.PgError{Code: pgerrcode.CheckViolation, ConstraintName: "bookings_date_order"}, ErrInvalidDateRange, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapWriteError(tt.pgErr)
			assert.ErrorIs(t, err, tt.want)

			var appErr *apperror.AppError
			if assert.True(t, errors.As(err, &appErr)) {
				assert.Equal(t, tt.status, appErr.Code)
			}
		})
	}

	plain := errors.New("connection reset")
	assert.Equal(t, plain, mapWriteError(plain))
}

package errs_test

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"ms-calendar/internal/errs"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, errs.CodeNotFound, errs.CodeOf(errs.NotFound("gone")))
	assert.Equal(t, errs.CodeDuplicateSubscription, errs.CodeOf(errs.Duplicate("again")))
	assert.Equal(t, errs.CodeValidation, errs.CodeOf(errs.Validation("bad")))
	assert.Equal(t, errs.CodeNotImplemented, errs.CodeOf(errs.NotImplemented("later")))

	// Untyped errors count as infrastructure failures.
	assert.Equal(t, errs.CodeStore, errs.CodeOf(errors.New("boom")))
}

func TestCodeOfWrapped(t *testing.T) {
	inner := errs.NotFound("subscription missing")
	wrapped := fmt.Errorf("handling request: %w", inner)

	assert.Equal(t, errs.CodeNotFound, errs.CodeOf(wrapped))
	assert.True(t, errs.IsCode(wrapped, errs.CodeNotFound))
}

func TestStoreKeepsCause(t *testing.T) {
	err := errs.Store(sql.ErrNoRows, "failed to load row")

	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.Contains(t, err.Error(), "failed to load row")
}

func TestMessageHidesDriverDetail(t *testing.T) {
	typed := errs.Store(errors.New("pq: connection refused"), "failed to fetch events")
	assert.Equal(t, "failed to fetch events", errs.Message(typed))

	untyped := errors.New("pq: connection refused")
	assert.Equal(t, "internal error", errs.Message(untyped))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, errs.HTTPStatus(errs.NotFound("x")))
	assert.Equal(t, http.StatusConflict, errs.HTTPStatus(errs.Duplicate("x")))
	assert.Equal(t, http.StatusBadRequest, errs.HTTPStatus(errs.Validation("x")))
	assert.Equal(t, http.StatusNotImplemented, errs.HTTPStatus(errs.NotImplemented("x")))
	assert.Equal(t, http.StatusInternalServerError, errs.HTTPStatus(errors.New("boom")))
}

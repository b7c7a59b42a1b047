package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus_MapsKinds(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(Validation("x")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("x")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(Conflict("x")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(Internal("x", errors.New("db down"))))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}

func TestKindOf_SeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("closing order: %w", Conflict("orden cerrada"))
	assert.Equal(t, KindConflict, KindOf(err))
	assert.True(t, Is(err, KindConflict))
	assert.False(t, Is(err, KindValidation))
}

func TestInternal_KeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal("no se pudo guardar", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, "Error interno del servidor", PublicMessage(err))
}

func TestPublicMessage_ReturnsDomainText(t *testing.T) {
	assert.Equal(t, "propina negativa", PublicMessage(Validation("propina negativa")))
}

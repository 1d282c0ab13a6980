package dto

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/helpdesk-br/chamado-service/pkg/util"
)

func TestValidateAcceptsValidRegister(t *testing.T) {
	err := Validate(RegisterRequest{
		Name:       "Ana Souza",
		Email:      "ana@empresa.com",
		Password:   "senha-forte",
		Department: "TI",
		Role:       "Analista",
	})
	assert.NoError(t, err)
}

func TestValidateReportsFieldsByJSONName(t *testing.T) {
	err := Validate(RegisterRequest{
		Name:     "A",
		Email:    "não-é-email",
		Password: "123",
	})
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Contains(t, domainErr.Details, "nome")
	assert.Contains(t, domainErr.Details, "email")
	assert.Contains(t, domainErr.Details, "senha")
	assert.Contains(t, domainErr.Details, "departamento")
}

func TestValidateTicketPayloads(t *testing.T) {
	assert.NoError(t, Validate(CreateTicketRequest{
		Title:       "Impressora parada",
		Description: "Equipamento não responde desde ontem",
		Priority:    "ALTA",
		Category:    "Hardware",
	}))

	err := Validate(CreateTicketRequest{
		Title:       "curto",
		Description: "Equipamento não responde desde ontem",
		Priority:    "URGENTISSIMA",
		Category:    "Hardware",
	})
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Contains(t, domainErr.Details, "prioridade")
}

func TestValidateOptionalFieldsSkipEmpty(t *testing.T) {
	assert.NoError(t, Validate(UpdateTicketRequest{}))
	assert.NoError(t, Validate(UpdateProfileRequest{}))

	bad := "x"
	err := Validate(UpdateProfileRequest{Name: &bad})
	assert.Error(t, err)
}

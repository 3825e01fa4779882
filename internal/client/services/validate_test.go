package services

import (
	"testing"

	"github.com/dmitrijs2005/gophwallet/internal/client/client"
	"github.com/dmitrijs2005/gophwallet/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCode(t *testing.T) {
	tests := []struct {
		code string
		ok   bool
	}{
		{"123456", true},
		{"000000", true},
		{"12345", false},
		{"1234567", false},
		{"12a456", false},
		{"", false},
		{"１２３４５６", false},
		{" 12345", false},
	}
	for _, tt := range tests {
		err := ValidateCode(tt.code)
		if tt.ok {
			assert.NoError(t, err, tt.code)
			continue
		}
		assert.ErrorIs(t, err, client.ErrValidation, tt.code)
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("juan@example.com"))
	for _, bad := range []string{"", "juan", "juan@", "juan@example", "Juan <juan@example.com>"} {
		assert.ErrorIs(t, ValidateEmail(bad), client.ErrValidation, bad)
	}
}

func TestValidateIdentity(t *testing.T) {
	ok := models.Identity{Name: "Juan", Alias: "juan.123", Email: "juan@example.com"}
	require.NoError(t, ValidateIdentity(ok))

	noName := ok
	noName.Name = " "
	var ve *client.ValidationError
	require.ErrorAs(t, ValidateIdentity(noName), &ve)
	assert.Equal(t, "name", ve.Field)

	badAlias := ok
	badAlias.Alias = "Juan Perez"
	require.ErrorAs(t, ValidateIdentity(badAlias), &ve)
	assert.Equal(t, "alias", ve.Field)
}

func TestValidateTransfer(t *testing.T) {
	tests := []struct {
		name  string
		req   models.TransferRequest
		field string
	}{
		{"zero amount", models.TransferRequest{ToAlias: "ana.55", Amount: 0, Description: "x"}, "amount"},
		{"negative amount", models.TransferRequest{ToAlias: "ana.55", Amount: -5, Description: "x"}, "amount"},
		{"no recipient", models.TransferRequest{Amount: 5, Description: "x"}, "recipient"},
		{"self", models.TransferRequest{ToAlias: "juan.123", Amount: 5, Description: "x"}, "recipient"},
		{"no description", models.TransferRequest{ToAlias: "ana.55", Amount: 5, Description: "  "}, "description"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ve *client.ValidationError
			require.ErrorAs(t, ValidateTransfer("juan.123", tt.req), &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
	require.NoError(t, ValidateTransfer("juan.123", models.TransferRequest{ToAlias: "ana.55", Amount: 200, Description: "lunch"}))
}

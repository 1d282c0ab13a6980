package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAdminLike(t *testing.T) {
	cases := []struct {
		role string
		want bool
	}{
		{"admin", true},
		{"Administrador", true},
		{"ADMINISTRADOR DE SISTEMAS", true},
		{"Gerente de TI", true},
		{"supervisor noturno", true},
		{"Supervisor", true},
		{"Analista", false},
		{"Técnico de Suporte", false},
		{"Desenvolvedor", false},
		{"", false},
	}

	for _, tc := range cases {
		t.Run(tc.role, func(t *testing.T) {
			assert.Equal(t, tc.want, IsAdminLike(tc.role))
		})
	}
}

func TestCapabilitiesFor(t *testing.T) {
	admin := CapabilitiesFor("Gerente de Suporte")
	assert.True(t, admin.ManageAnyTicket)
	assert.True(t, admin.DeleteTickets)
	assert.True(t, admin.ModerateComments)
	assert.True(t, admin.ManageUsers)

	regular := CapabilitiesFor("Analista")
	assert.Equal(t, Capabilities{}, regular)
}

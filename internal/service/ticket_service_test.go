package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-br/chamado-service/internal/domain"
	"github.com/helpdesk-br/chamado-service/internal/events"
	apperrors "github.com/helpdesk-br/chamado-service/pkg/util"
)

type ticketFixture struct {
	svc        *TicketService
	tickets    *fakeTicketRepo
	comments   *fakeCommentRepo
	audit      *fakeAuditRepo
	users      *fakeUserRepo
	dispatcher *recordingDispatcher
}

func newTicketFixture() *ticketFixture {
	f := &ticketFixture{
		tickets:    newFakeTicketRepo(),
		comments:   newFakeCommentRepo(),
		audit:      newFakeAuditRepo(),
		users:      newFakeUserRepo(),
		dispatcher: &recordingDispatcher{},
	}
	f.svc = NewTicketService(TicketDependencies{
		TicketRepo:  f.tickets,
		CommentRepo: f.comments,
		AuditRepo:   f.audit,
		UserRepo:    f.users,
		Tx:          fakeTxManager{},
		Dispatcher:  f.dispatcher,
	})
	return f
}

func regularUser(id, name string) *domain.User {
	return &domain.User{ID: id, Name: name, Email: name + "@empresa.com", Role: "Analista", Active: true}
}

func adminUser(id, name string) *domain.User {
	return &domain.User{ID: id, Name: name, Email: name + "@empresa.com", Role: "Gerente de TI", Active: true}
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr), "expected DomainError, got %v", err)
	assert.Equal(t, code, domainErr.Code)
}

func TestTicketCreateStartsOpenWithAuditEntry(t *testing.T) {
	f := newTicketFixture()
	creator := regularUser("u1", "ana")

	ticket, err := f.svc.Create(context.Background(), creator, TicketCreateInput{
		Title:       "Impressora do 3º andar parou",
		Description: "A impressora não responde desde ontem",
		Priority:    domain.TicketPriorityCritical,
		Category:    "Hardware",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, "u1", ticket.CreatorID)
	require.NotNil(t, ticket.Creator)
	assert.Equal(t, "ana", ticket.Creator.Name)

	entries := f.audit.byTicket(ticket.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.AuditCreated, entries[0].Action)
	assert.Contains(t, entries[0].Details, "CRITICA")

	created := f.dispatcher.ofType(events.EventTicketCreated)
	require.Len(t, created, 1)
	assert.NotEmpty(t, created[0].ID)
}

func TestTicketUpdateToResolvedStampsResolvedAt(t *testing.T) {
	f := newTicketFixture()
	creator := regularUser("u1", "ana")
	ticket, err := f.svc.Create(context.Background(), creator, TicketCreateInput{
		Title:       "VPN intermitente",
		Description: "Conexão cai a cada 10 minutos",
		Priority:    domain.TicketPriorityHigh,
		Category:    "Rede",
	})
	require.NoError(t, err)
	require.Nil(t, ticket.ResolvedAt)

	resolved := domain.TicketStatusResolved
	updated, err := f.svc.Update(context.Background(), creator, ticket.ID, TicketUpdateInput{Status: &resolved})
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusResolved, updated.Status)
	require.NotNil(t, updated.ResolvedAt)
	assert.False(t, updated.ResolvedAt.Before(updated.CreatedAt))

	entries := f.audit.byTicket(ticket.ID)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.AuditUpdated, entries[1].Action)
	assert.Contains(t, entries[1].Details, "Status alterado para RESOLVIDO")

	require.Len(t, f.dispatcher.ofType(events.EventTicketUpdated), 1)
	statusEvents := f.dispatcher.ofType(events.EventTicketStatusChanged)
	require.Len(t, statusEvents, 1)
	payload, ok := statusEvents[0].Payload.(events.StatusChangedPayload)
	require.True(t, ok)
	assert.Equal(t, ticket.ID, payload.TicketID)
	assert.Equal(t, domain.TicketStatusResolved, payload.NewStatus)
	assert.Equal(t, "ana", payload.ChangedBy)
}

func TestTicketUpdateForbiddenForNonCreator(t *testing.T) {
	f := newTicketFixture()
	creator := regularUser("u1", "ana")
	stranger := regularUser("u2", "beto")

	ticket, err := f.svc.Create(context.Background(), creator, TicketCreateInput{
		Title:       "Monitor com defeito",
		Description: "Tela pisca ao ligar o equipamento",
		Priority:    domain.TicketPriorityLow,
		Category:    "Hardware",
	})
	require.NoError(t, err)

	title := "alterado"
	_, err = f.svc.Update(context.Background(), stranger, ticket.ID, TicketUpdateInput{Title: &title})
	assertDomainCode(t, err, "FORBIDDEN")

	current, getErr := f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, getErr)
	assert.Equal(t, "Monitor com defeito", current.Title)
}

func TestTicketUpdateAllowedForAdmin(t *testing.T) {
	f := newTicketFixture()
	creator := regularUser("u1", "ana")
	admin := adminUser("u9", "clara")

	ticket, err := f.svc.Create(context.Background(), creator, TicketCreateInput{
		Title:       "Acesso ao ERP bloqueado",
		Description: "Usuária sem acesso após troca de senha",
		Priority:    domain.TicketPriorityMedium,
		Category:    "Acesso",
	})
	require.NoError(t, err)

	priority := domain.TicketPriorityHigh
	updated, err := f.svc.Update(context.Background(), admin, ticket.ID, TicketUpdateInput{Priority: &priority})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketPriorityHigh, updated.Priority)
}

func TestTicketUpdateUnknownTicket(t *testing.T) {
	f := newTicketFixture()
	title := "x"
	_, err := f.svc.Update(context.Background(), adminUser("u9", "clara"), "nope", TicketUpdateInput{Title: &title})
	assertDomainCode(t, err, "NOT_FOUND")
}

func TestTicketDeleteRequiresElevatedRole(t *testing.T) {
	f := newTicketFixture()
	creator := regularUser("u1", "ana")
	admin := adminUser("u9", "clara")

	ticket, err := f.svc.Create(context.Background(), creator, TicketCreateInput{
		Title:       "Teclado quebrado",
		Description: "Teclas não respondem no notebook",
		Priority:    domain.TicketPriorityLow,
		Category:    "Hardware",
	})
	require.NoError(t, err)

	err = f.svc.Delete(context.Background(), creator, ticket.ID)
	assertDomainCode(t, err, "FORBIDDEN")

	require.NoError(t, f.svc.Delete(context.Background(), admin, ticket.ID))
	_, err = f.tickets.GetByID(context.Background(), ticket.ID)
	assert.Error(t, err)
}

func TestAssignOverridesStatus(t *testing.T) {
	f := newTicketFixture()
	creator := regularUser("u1", "ana")
	admin := adminUser("u9", "clara")
	tech := f.users.add(domain.User{ID: "u5", Name: "diego", Email: "diego@empresa.com", Role: "Técnico", Active: true})

	ticket, err := f.svc.Create(context.Background(), creator, TicketCreateInput{
		Title:       "Servidor de arquivos lento",
		Description: "Acesso à rede demorando vários minutos",
		Priority:    domain.TicketPriorityHigh,
		Category:    "Infraestrutura",
	})
	require.NoError(t, err)

	closed := domain.TicketStatusClosed
	_, err = f.svc.Update(context.Background(), admin, ticket.ID, TicketUpdateInput{Status: &closed})
	require.NoError(t, err)

	assigned, err := f.svc.Assign(context.Background(), admin, ticket.ID, &tech.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, assigned.Status)
	require.NotNil(t, assigned.AssigneeID)
	assert.Equal(t, tech.ID, *assigned.AssigneeID)

	entries := f.audit.byTicket(ticket.ID)
	last := entries[len(entries)-1]
	assert.Equal(t, domain.AuditAssigned, last.Action)
	assert.Contains(t, last.Details, "diego")

	unassigned, err := f.svc.Assign(context.Background(), admin, ticket.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, unassigned.Status)
	assert.Nil(t, unassigned.AssigneeID)

	entries = f.audit.byTicket(ticket.ID)
	assert.Equal(t, domain.AuditUnassigned, entries[len(entries)-1].Action)
}

func TestAssignRejectsInactiveOrUnknownUser(t *testing.T) {
	f := newTicketFixture()
	admin := adminUser("u9", "clara")
	inactive := f.users.add(domain.User{ID: "u7", Name: "edu", Email: "edu@empresa.com", Role: "Técnico", Active: false})

	ticket, err := f.svc.Create(context.Background(), admin, TicketCreateInput{
		Title:       "Licença do antivírus expirada",
		Description: "Renovar licença corporativa",
		Priority:    domain.TicketPriorityMedium,
		Category:    "Software",
	})
	require.NoError(t, err)

	_, err = f.svc.Assign(context.Background(), admin, ticket.ID, &inactive.ID)
	assertDomainCode(t, err, "NOT_FOUND")

	unknown := "ghost"
	_, err = f.svc.Assign(context.Background(), admin, ticket.ID, &unknown)
	assertDomainCode(t, err, "NOT_FOUND")
}

func TestTicketListPaginates(t *testing.T) {
	f := newTicketFixture()
	creator := regularUser("u1", "ana")

	for i := 0; i < 25; i++ {
		_, err := f.svc.Create(context.Background(), creator, TicketCreateInput{
			Title:       fmt.Sprintf("Chamado número %02d", i),
			Description: "Descrição longa o suficiente para o cadastro",
			Priority:    domain.TicketPriorityMedium,
			Category:    "Geral",
		})
		require.NoError(t, err)
	}

	page, err := f.svc.List(context.Background(), TicketListInput{Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, page.Items, 10)
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.TotalPages)

	beyond, err := f.svc.List(context.Background(), TicketListInput{Page: 5, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
	assert.Equal(t, int64(25), beyond.Total)
}

func TestTicketListNormalizesPageSize(t *testing.T) {
	f := newTicketFixture()
	page, err := f.svc.List(context.Background(), TicketListInput{Page: -3, PageSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.TotalPages)
}

func TestTicketGetByIDReturnsThread(t *testing.T) {
	f := newTicketFixture()
	creator := regularUser("u1", "ana")

	ticket, err := f.svc.Create(context.Background(), creator, TicketCreateInput{
		Title:       "Email corporativo fora do ar",
		Description: "Caixas de entrada não sincronizam",
		Priority:    domain.TicketPriorityCritical,
		Category:    "Email",
	})
	require.NoError(t, err)

	require.NoError(t, f.comments.Create(context.Background(), &domain.Comment{
		Content:  "Equipe verificando o servidor",
		AuthorID: creator.ID,
		TicketID: ticket.ID,
	}))

	got, comments, history, err := f.svc.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, got.ID)
	assert.Len(t, comments, 1)
	assert.Len(t, history, 1)
}

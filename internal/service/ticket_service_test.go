package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/Camden-Kirkpatrick/helpdesk-api/internal/errs"
	"github.com/Camden-Kirkpatrick/helpdesk-api/internal/model"
	"github.com/Camden-Kirkpatrick/helpdesk-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *service.TicketService {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Ticket{}))
	return service.NewTicketService(db)
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func statusPtr(s model.TicketStatus) *model.TicketStatus { return &s }

func createInput(title, description string, priority int) *model.TicketCreate {
	return &model.TicketCreate{Title: &title, Description: &description, Priority: &priority}
}

func mustCreate(t *testing.T, svc *service.TicketService, title, description string, priority int) *model.Ticket {
	t.Helper()
	ticket, err := svc.Create(context.Background(), createInput(title, description, priority))
	require.NoError(t, err)
	return ticket
}

func TestCreateAssignsIDAndDefaultsStatus(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	ticket := mustCreate(t, svc, "Printer not working", "Office printer keeps jamming", 3)
	assert.NotZero(t, ticket.ID)
	assert.Equal(t, model.TicketStatusOpen, ticket.Status)

	// Round-trip: get returns the created fields plus the assigned id.
	got, err := svc.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.Public(), got.Public())

	second := mustCreate(t, svc, "Laptop overheating", "Fan is loud", 5)
	assert.NotEqual(t, ticket.ID, second.ID)
}

func TestCreateRejectsBadPriority(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, priority := range []int{0, 6, -1} {
		_, err := svc.Create(ctx, createInput("t", "d", priority))
		require.Error(t, err, "priority %d", priority)
		assert.True(t, errs.IsValidation(err))
	}

	// Nothing may be persisted by a rejected create.
	items, err := svc.List(ctx, service.Page{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGetByIDNotFound(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.GetByID(context.Background(), 12345)
	assert.ErrorIs(t, err, errs.ErrTicketNotFound)
}

func TestListOffsetLimitAndOrder(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		mustCreate(t, svc, fmt.Sprintf("ticket %d", i), "d", 1)
	}

	all, err := svc.List(ctx, service.Page{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID, all[i].ID, "insertion order must be stable")
	}

	window, err := svc.List(ctx, service.Page{Offset: 1, Limit: intPtr(2)})
	require.NoError(t, err)
	require.Len(t, window, 2)
	assert.Equal(t, all[1].ID, window[0].ID)
	assert.Equal(t, all[2].ID, window[1].ID)
}

func TestListExplicitZeroLimit(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		mustCreate(t, svc, fmt.Sprintf("ticket %d", i), "d", 1)
	}

	// limit=0 is a real window of zero rows, not "limit absent".
	items, err := svc.List(ctx, service.Page{Limit: intPtr(0)})
	require.NoError(t, err)
	assert.Empty(t, items)

	// An absent limit still falls back to the default.
	items, err = svc.List(ctx, service.Page{})
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestListRejectsOutOfRangePage(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.List(ctx, service.Page{Limit: intPtr(service.MaxLimit + 1)})
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err), "over-cap limit must be rejected, not clamped")

	_, err = svc.List(ctx, service.Page{Offset: -1})
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))

	_, err = svc.List(ctx, service.Page{Limit: intPtr(-1)})
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestSearchConjunction(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first := mustCreate(t, svc, "a", "d", 5)
	second := mustCreate(t, svc, "b", "d", 5)
	mustCreate(t, svc, "c", "d", 2)

	_, err := svc.Update(ctx, second.ID, &model.TicketUpdate{Status: statusPtr(model.TicketStatusClosed)})
	require.NoError(t, err)

	// priority=5 AND status=open matches exactly the first ticket.
	items, err := svc.Search(ctx, service.SearchFilter{Priority: intPtr(5), Status: statusPtr(model.TicketStatusOpen)}, service.Page{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, first.ID, items[0].ID)

	// priority=5 alone matches the first two.
	items, err = svc.Search(ctx, service.SearchFilter{Priority: intPtr(5)}, service.Page{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, first.ID, items[0].ID)
	assert.Equal(t, second.ID, items[1].ID)

	// No filters behaves like list.
	items, err = svc.Search(ctx, service.SearchFilter{}, service.Page{})
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestSearchTitleCaseInsensitiveExact(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	ticket := mustCreate(t, svc, "Printer Issue", "jammed again", 3)
	mustCreate(t, svc, "Printer Issue in room 4", "jammed", 3)

	items, err := svc.Search(ctx, service.SearchFilter{Title: strPtr("printer issue")}, service.Page{})
	require.NoError(t, err)
	require.Len(t, items, 1, "match is exact, not substring")
	assert.Equal(t, ticket.ID, items[0].ID)

	items, err = svc.Search(ctx, service.SearchFilter{Description: strPtr("JAMMED AGAIN")}, service.Page{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, ticket.ID, items[0].ID)
}

func TestSearchRejectsInvalidFilters(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Search(ctx, service.SearchFilter{Priority: intPtr(9)}, service.Page{})
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))

	_, err = svc.Search(ctx, service.SearchFilter{Status: statusPtr("escalated")}, service.Page{})
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestUpdateMergesOnlyPresentFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	ticket := mustCreate(t, svc, "Printer not working", "keeps jamming", 3)

	updated, err := svc.Update(ctx, ticket.ID, &model.TicketUpdate{Priority: intPtr(4)})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Priority)
	assert.Equal(t, ticket.Title, updated.Title)
	assert.Equal(t, ticket.Description, updated.Description)
	assert.Equal(t, model.TicketStatusOpen, updated.Status)

	// An explicit empty description overwrites; an absent one would not.
	updated, err = svc.Update(ctx, ticket.ID, &model.TicketUpdate{Description: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "", updated.Description)
	assert.Equal(t, 4, updated.Priority)
}

func TestUpdateEmptyPatchIsNoOp(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	ticket := mustCreate(t, svc, "t", "d", 2)
	updated, err := svc.Update(ctx, ticket.ID, &model.TicketUpdate{})
	require.NoError(t, err)
	assert.Equal(t, ticket.Public(), updated.Public())
}

func TestUpdateValidatesPresentFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	ticket := mustCreate(t, svc, "t", "d", 2)

	_, err := svc.Update(ctx, ticket.ID, &model.TicketUpdate{Priority: intPtr(0)})
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))

	_, err = svc.Update(ctx, ticket.ID, &model.TicketUpdate{Status: statusPtr("wontfix")})
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))

	// The rejected patches must not have modified the row.
	got, err := svc.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.Public(), got.Public())
}

func TestUpdateNotFound(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Update(context.Background(), 999, &model.TicketUpdate{Priority: intPtr(3)})
	assert.ErrorIs(t, err, errs.ErrTicketNotFound)
}

func TestDeleteReturnsSnapshotAndIsTerminal(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	ticket := mustCreate(t, svc, "Email not syncing", "Outlook not updating inbox", 2)

	snapshot, err := svc.Delete(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.Public(), snapshot.Public())

	// Second delete on the same id is not-found, not success.
	_, err = svc.Delete(ctx, ticket.ID)
	assert.ErrorIs(t, err, errs.ErrTicketNotFound)

	_, err = svc.GetByID(ctx, ticket.ID)
	assert.ErrorIs(t, err, errs.ErrTicketNotFound)

	_, err = svc.Update(ctx, ticket.ID, &model.TicketUpdate{Priority: intPtr(1)})
	assert.ErrorIs(t, err, errs.ErrTicketNotFound)
}

func TestSearchPaging(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		mustCreate(t, svc, "duplicate", "d", 3)
	}

	items, err := svc.Search(ctx, service.SearchFilter{Title: strPtr("duplicate")}, service.Page{Offset: 2, Limit: intPtr(1)})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

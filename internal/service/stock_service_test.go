package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go-erp-admin/internal/model"
	"go-erp-admin/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adjust(m *model.Material, op string, qty int64) *AdjustRequest {
	return &AdjustRequest{
		ItemKind:      model.ItemMaterial,
		ItemID:        m.ID.String(),
		OperationType: op,
		Quantity:      decimal.NewFromInt(qty),
	}
}

func materialKind() *model.ItemKind {
	k := model.ItemMaterial
	return &k
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func TestAdjustInThenOut(t *testing.T) {
	e := newEnv(t)
	admin := e.user(t, "boss", true)
	bolt := e.material(t, "M6", "Bolt M6", 0)
	ctx := context.Background()

	entry, err := e.stock.Adjust(ctx, adjust(bolt, "in", 100), admin)
	require.NoError(t, err)
	assertDecimal(t, "100", entry.Quantity)
	assert.Equal(t, model.DefaultLocation, entry.Location)

	entry, err = e.stock.Adjust(ctx, adjust(bolt, "out", 30), admin)
	require.NoError(t, err)
	assertDecimal(t, "70", entry.Quantity)
	assertDecimal(t, "70", e.quantity(t, bolt))

	for i := 0; i < 2; i++ {
		_, err = e.stock.Adjust(ctx, adjust(bolt, "out", 1000), admin)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		assertDecimal(t, "70", e.quantity(t, bolt))
	}

	movements, err := e.stock.ListMovements(repository.MovementFilter{ItemKind: materialKind(), ItemID: &bolt.ID}, repository.NewPage(1, 50))
	require.NoError(t, err)
	assert.EqualValues(t, 2, movements.Total)

	assert.Len(t, e.events.events, 2)
	ev, ok := e.events.events[1].(StockEvent)
	require.True(t, ok)
	assert.Equal(t, model.OpOut, ev.OperationType)
	assertDecimal(t, "70", ev.NewQuantity)
	assert.Equal(t, "boss", ev.User)
}

func TestAdjustRejectsBadInput(t *testing.T) {
	e := newEnv(t)
	admin := e.user(t, "boss", true)
	bolt := e.material(t, "M6", "Bolt M6", 10)
	ctx := context.Background()

	_, err := e.stock.Adjust(ctx, adjust(bolt, "transfer", 1), admin)
	assert.ErrorIs(t, err, ErrInvalidOperation)

	_, err = e.stock.Adjust(ctx, adjust(bolt, "in", 0), admin)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = e.stock.Adjust(ctx, adjust(bolt, "in", -5), admin)
	assert.ErrorIs(t, err, ErrValidation)

	ghost := &model.Material{}
	ghost.ID = bolt.ID
	ghost.ID[0] ^= 0xff
	_, err = e.stock.Adjust(ctx, adjust(ghost, "in", 1), admin)
	assert.ErrorIs(t, err, ErrNoSuchItem)

	req := adjust(bolt, "in", 1)
	req.ItemKind = "widget"
	_, err = e.stock.Adjust(ctx, req, admin)
	assert.ErrorIs(t, err, ErrValidation)

	assertDecimal(t, "10", e.quantity(t, bolt))
	assert.Empty(t, e.events.events)
}

func TestAdjustRejectsSubCentQuantities(t *testing.T) {
	e := newEnv(t)
	admin := e.user(t, "boss", true)
	bolt := e.material(t, "M6", "Bolt M6", 0)
	ctx := context.Background()

	req := adjust(bolt, "in", 0)
	req.Quantity = dec("0.004")
	for i := 0; i < 3; i++ {
		_, err := e.stock.Adjust(ctx, req, admin)
		assert.ErrorIs(t, err, ErrValidation)
	}

	req.Quantity = dec("0.25")
	for i := 0; i < 3; i++ {
		_, err := e.stock.Adjust(ctx, req, admin)
		require.NoError(t, err)
	}

	sum, err := repository.NewStockRepo(e.db).SumEntries(model.ItemMaterial, bolt.ID)
	require.NoError(t, err)
	assertDecimal(t, "0.75", sum)
	assertDecimal(t, "0.75", e.quantity(t, bolt))

	movements, err := e.stock.ListMovements(repository.MovementFilter{ItemID: &bolt.ID}, repository.NewPage(1, 10))
	require.NoError(t, err)
	logged := decimal.Zero
	for _, mv := range movements.Items {
		logged = logged.Add(mv.Quantity)
	}
	assertDecimal(t, "0.75", logged)
}

func TestAdjustOutWithoutEntry(t *testing.T) {
	e := newEnv(t)
	admin := e.user(t, "boss", true)
	bolt := e.material(t, "M6", "Bolt M6", 10)

	req := adjust(bolt, "out", 1)
	req.Location = "SHELF-B"
	_, err := e.stock.Adjust(context.Background(), req, admin)
	assert.ErrorIs(t, err, ErrNoSuchItem)
	assertDecimal(t, "10", e.quantity(t, bolt))
}

func TestAdjustKeepsItemQuantityInSyncWithEntries(t *testing.T) {
	e := newEnv(t)
	admin := e.user(t, "boss", true)
	bolt := e.material(t, "M6", "Bolt M6", 5)
	ctx := context.Background()

	for _, loc := range []string{"A1", "B2"} {
		req := adjust(bolt, "in", 20)
		req.Location = loc
		_, err := e.stock.Adjust(ctx, req, admin)
		require.NoError(t, err)
	}
	req := adjust(bolt, "out", 7)
	req.Location = "A1"
	_, err := e.stock.Adjust(ctx, req, admin)
	require.NoError(t, err)

	sum, err := repository.NewStockRepo(e.db).SumEntries(model.ItemMaterial, bolt.ID)
	require.NoError(t, err)
	assertDecimal(t, "38", sum)
	assertDecimal(t, "38", e.quantity(t, bolt))
}

func TestAdjustOnlyTouchesTheNamedItem(t *testing.T) {
	e := newEnv(t)
	admin := e.user(t, "boss", true)
	bolt := e.material(t, "M6", "Bolt M6", 50)
	nut := e.material(t, "N6", "Nut M6", 50)

	_, err := e.stock.Adjust(context.Background(), adjust(bolt, "out", 20), admin)
	require.NoError(t, err)

	assertDecimal(t, "30", e.quantity(t, bolt))
	assertDecimal(t, "50", e.quantity(t, nut))

	entries, err := e.stock.ListEntries(repository.StockFilter{ItemKind: materialKind(), ItemID: &nut.ID}, repository.NewPage(1, 10))
	require.NoError(t, err)
	require.Len(t, entries.Items, 1)
	assertDecimal(t, "50", entries.Items[0].Quantity)
}

func TestConcurrentOutboundNeverGoesNegative(t *testing.T) {
	e := newEnv(t)
	admin := e.user(t, "boss", true)
	bolt := e.material(t, "M6", "Bolt M6", 10)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, fail int
	)
	for i := 0; i < 15; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.stock.Adjust(context.Background(), adjust(bolt, "out", 1), admin)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrInsufficientStock):
				fail++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, 5, fail)
	assertDecimal(t, "0", e.quantity(t, bolt))
}

package order

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	domorder "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/order"
)

type mockOrderRepository struct {
	byID    map[int64]*domorder.Order
	entries []domorder.StatusHistoryEntry
}

func newMockOrderRepository(orders ...*domorder.Order) *mockOrderRepository {
	byID := make(map[int64]*domorder.Order)
	for _, o := range orders {
		byID[o.ID] = o
	}
	return &mockOrderRepository{byID: byID}
}

func (m *mockOrderRepository) Create(ctx context.Context, o *domorder.Order) (*domorder.Order, error) {
	m.byID[o.ID] = o
	return o, nil
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id int64) (*domorder.Order, error) {
	o, ok := m.byID[id]
	if !ok {
		return nil, domorder.ErrOrderNotFound
	}
	return o, nil
}

func (m *mockOrderRepository) GetByReference(ctx context.Context, ref string) (*domorder.Order, error) {
	for _, o := range m.byID {
		if o.Reference == ref {
			return o, nil
		}
	}
	return nil, domorder.ErrOrderNotFound
}

func (m *mockOrderRepository) ListByUser(ctx context.Context, userID int64) ([]*domorder.Order, error) {
	var out []*domorder.Order
	for _, o := range m.byID {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id int64, status domorder.Status, entry domorder.StatusHistoryEntry) (*domorder.Order, error) {
	o, ok := m.byID[id]
	if !ok {
		return nil, domorder.ErrOrderNotFound
	}
	o.Status = status
	o.History = append(o.History, entry)
	m.entries = append(m.entries, entry)
	return o, nil
}

type mockNotifier struct {
	notified []int64
}

func (m *mockNotifier) Notify(ctx context.Context, userID int64, title, message, kind string) error {
	m.notified = append(m.notified, userID)
	return nil
}

func newTestService(orders ...*domorder.Order) (*Service, *mockOrderRepository, *mockNotifier) {
	repo := newMockOrderRepository(orders...)
	notifier := &mockNotifier{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, notifier, log), repo, notifier
}

func TestUpdateStatus_AppendsOneHistoryEntryPerTransition(t *testing.T) {
	o := &domorder.Order{ID: 1, UserID: 100, Reference: "ref-1", Status: domorder.StatusPlaced}
	svc, repo, notifier := newTestService(o)

	updated, err := svc.UpdateStatus(context.Background(), 1, domorder.StatusProcessing, "picking", "admin")
	require.NoError(t, err)
	require.Equal(t, domorder.StatusProcessing, updated.Status)
	require.Len(t, repo.entries, 1)
	require.Equal(t, "picking", repo.entries[0].Note)
	require.Equal(t, "admin", repo.entries[0].Actor)
	require.Equal(t, []int64{100}, notifier.notified)

	_, err = svc.UpdateStatus(context.Background(), 1, domorder.StatusShipped, "", "admin")
	require.NoError(t, err)
	require.Len(t, repo.entries, 2)
}

func TestUpdateStatus_RejectsIllegalTransitions(t *testing.T) {
	tests := []struct {
		name string
		from domorder.Status
		to   domorder.Status
	}{
		{name: "placed straight to shipped", from: domorder.StatusPlaced, to: domorder.StatusShipped},
		{name: "placed straight to delivered", from: domorder.StatusPlaced, to: domorder.StatusDelivered},
		{name: "delivered to cancelled", from: domorder.StatusDelivered, to: domorder.StatusCancelled},
		{name: "cancelled to processing", from: domorder.StatusCancelled, to: domorder.StatusProcessing},
		{name: "shipped back to processing", from: domorder.StatusShipped, to: domorder.StatusProcessing},
		{name: "same status", from: domorder.StatusPlaced, to: domorder.StatusPlaced},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &domorder.Order{ID: 1, UserID: 100, Status: tt.from}
			svc, repo, _ := newTestService(o)

			_, err := svc.UpdateStatus(context.Background(), 1, tt.to, "", "admin")
			require.ErrorIs(t, err, domorder.ErrInvalidTransition)
			require.Empty(t, repo.entries)
		})
	}
}

func TestUpdateStatus_AllowsCancelAndRefundPreDelivery(t *testing.T) {
	for _, from := range []domorder.Status{
		domorder.StatusPlaced, domorder.StatusPaid,
		domorder.StatusProcessing, domorder.StatusShipped,
	} {
		for _, to := range []domorder.Status{domorder.StatusCancelled, domorder.StatusRefunded} {
			t.Run(string(from)+"_to_"+string(to), func(t *testing.T) {
				o := &domorder.Order{ID: 1, UserID: 100, Status: from}
				svc, _, _ := newTestService(o)

				updated, err := svc.UpdateStatus(context.Background(), 1, to, "", "admin")
				require.NoError(t, err)
				require.Equal(t, to, updated.Status)
			})
		}
	}
}

func TestUpdateStatus_InvalidStatusValue(t *testing.T) {
	svc, _, _ := newTestService(&domorder.Order{ID: 1, Status: domorder.StatusPlaced})

	_, err := svc.UpdateStatus(context.Background(), 1, domorder.Status("LOST"), "", "admin")
	require.ErrorIs(t, err, domorder.ErrInvalidStatus)
}

func TestGetForUser_HidesOtherUsersOrders(t *testing.T) {
	svc, _, _ := newTestService(&domorder.Order{ID: 1, UserID: 100, Status: domorder.StatusPlaced})

	_, err := svc.GetForUser(context.Background(), 200, 1)
	require.ErrorIs(t, err, domorder.ErrOrderNotFound)

	o, err := svc.GetForUser(context.Background(), 100, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), o.ID)
}

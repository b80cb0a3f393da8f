package booking

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkalinic/travel-booking-api/internal/model"
	"github.com/mkalinic/travel-booking-api/internal/repository"
)

// fakeArrangements is an in-memory ArrangementStore.
type fakeArrangements struct {
	mu   sync.Mutex
	byID map[uint64]model.Arrangement
}

func newFakeArrangements(arrs ...model.Arrangement) *fakeArrangements {
	f := &fakeArrangements{byID: make(map[uint64]model.Arrangement)}
	for _, a := range arrs {
		f.byID[a.ID] = a
	}
	return f
}

func (f *fakeArrangements) GetByID(_ context.Context, id uint64) (*model.Arrangement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrArrangementNotFound
	}
	cp := a
	return &cp, nil
}

func (f *fakeArrangements) set(a model.Arrangement) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[a.ID] = a
}

// fakeReservations is an in-memory ReservationStore.  Every method is
// individually atomic, like the SQL statements it stands in for.
type fakeReservations struct {
	mu   sync.Mutex
	byID map[uint64]model.Reservation
	next uint64
}

func newFakeReservations() *fakeReservations {
	return &fakeReservations{byID: make(map[uint64]model.Reservation)}
}

func (f *fakeReservations) Create(_ context.Context, res *model.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	res.ID = f.next
	f.byID[res.ID] = *res
	return nil
}

func (f *fakeReservations) GetByID(_ context.Context, id uint64) (*model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	cp := r
	return &cp, nil
}

func (f *fakeReservations) SumSeatsForArrangement(_ context.Context, arrangementID uint64) (uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum uint32
	for _, r := range f.byID {
		if r.ArrangementID == arrangementID {
			sum += r.SeatCount
		}
	}
	return sum, nil
}

func (f *fakeReservations) Update(_ context.Context, id uint64, seatCount uint32, totalPrice float64) (*model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	r.SeatCount = seatCount
	r.TotalPrice = totalPrice
	f.byID[id] = r
	cp := r
	return &cp, nil
}

func (f *fakeReservations) Delete(_ context.Context, id uint64) (uint32, uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return 0, 0, repository.ErrReservationNotFound
	}
	delete(f.byID, id)
	return r.SeatCount, r.ArrangementID, nil
}

func (f *fakeReservations) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

func newTestService(arrs ...model.Arrangement) (*Service, *fakeArrangements, *fakeReservations) {
	fa := newFakeArrangements(arrs...)
	fr := newFakeReservations()
	return NewService(fa, fr), fa, fr
}

func TestReserveComputesDiscountedTotal(t *testing.T) {
	svc, _, _ := newTestService(model.Arrangement{
		ID: 1, BasePrice: 200, DiscountPercent: 25, Capacity: 10,
	})

	result, err := svc.Reserve(context.Background(), 1, 7, 4)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), result.Reservation.SeatCount)
	assert.InDelta(t, 600, result.Reservation.TotalPrice, 1e-9) // 150 * 4
	assert.Equal(t, uint32(6), result.Remaining)
	assert.Equal(t, uint64(7), result.Reservation.UserID)
}

func TestReserveExactFitThenFull(t *testing.T) {
	svc, _, _ := newTestService(model.Arrangement{ID: 1, BasePrice: 100, Capacity: 5})

	result, err := svc.Reserve(context.Background(), 1, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), result.Remaining)

	_, err = svc.Reserve(context.Background(), 1, 2, 1)
	var capErr *CapacityExceededError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, uint32(0), capErr.Remaining)
}

func TestReserveInsufficientLeavesNothingBehind(t *testing.T) {
	svc, _, fr := newTestService(model.Arrangement{ID: 1, BasePrice: 100, Capacity: 3})

	_, err := svc.Reserve(context.Background(), 1, 1, 4)
	var capErr *CapacityExceededError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, uint32(3), capErr.Remaining)
	assert.Zero(t, fr.count())
}

func TestReserveValidation(t *testing.T) {
	svc, _, _ := newTestService(model.Arrangement{ID: 1, BasePrice: 100, Capacity: 3})

	_, err := svc.Reserve(context.Background(), 1, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidSeatCount)

	_, err = svc.Reserve(context.Background(), 99, 1, 1)
	assert.ErrorIs(t, err, repository.ErrArrangementNotFound)
}

func TestModifyGrowWithinCapacity(t *testing.T) {
	svc, _, _ := newTestService(model.Arrangement{ID: 1, BasePrice: 100, Capacity: 10})

	reserved, err := svc.Reserve(context.Background(), 1, 1, 3)
	require.NoError(t, err)

	result, err := svc.Modify(context.Background(), reserved.Reservation.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), result.Reservation.SeatCount)
	assert.InDelta(t, 700, result.Reservation.TotalPrice, 1e-9)
	assert.InDelta(t, 400, result.PriceDelta, 1e-9)
	assert.Equal(t, CapacityView{Total: 10, Booked: 7, Available: 3}, result.Capacity)
}

func TestModifyGrowBeyondCapacity(t *testing.T) {
	svc, _, fr := newTestService(model.Arrangement{ID: 1, BasePrice: 100, Capacity: 10})

	_, err := svc.Reserve(context.Background(), 1, 2, 6)
	require.NoError(t, err)
	mine, err := svc.Reserve(context.Background(), 1, 1, 3)
	require.NoError(t, err)

	// Growing from 3 to 8 needs 5 more seats; only 1 remains.
	_, err = svc.Modify(context.Background(), mine.Reservation.ID, 8)
	var capErr *CapacityExceededError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, uint32(1), capErr.Remaining)

	// The failed modify left the reservation untouched.
	unchanged, err := fr.GetByID(context.Background(), mine.Reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), unchanged.SeatCount)
	assert.InDelta(t, 300, unchanged.TotalPrice, 1e-9)
}

func TestModifyRepricesAtCurrentDiscount(t *testing.T) {
	svc, fa, _ := newTestService(model.Arrangement{ID: 1, BasePrice: 100, Capacity: 10})

	reserved, err := svc.Reserve(context.Background(), 1, 1, 2)
	require.NoError(t, err)
	assert.InDelta(t, 200, reserved.Reservation.TotalPrice, 1e-9)

	// The agent halves the price; the next modify picks it up even
	// though the seat count shrinks and no capacity check runs.
	fa.set(model.Arrangement{ID: 1, BasePrice: 100, DiscountPercent: 50, Capacity: 10})

	result, err := svc.Modify(context.Background(), reserved.Reservation.ID, 1)
	require.NoError(t, err)
	assert.InDelta(t, 50, result.Reservation.TotalPrice, 1e-9)
	assert.InDelta(t, -150, result.PriceDelta, 1e-9)
}

func TestModifyValidation(t *testing.T) {
	svc, _, _ := newTestService(model.Arrangement{ID: 1, BasePrice: 100, Capacity: 10})

	_, err := svc.Modify(context.Background(), 1, 0)
	assert.ErrorIs(t, err, ErrInvalidSeatCount)

	_, err = svc.Modify(context.Background(), 42, 2)
	assert.ErrorIs(t, err, repository.ErrReservationNotFound)
}

func TestCancelReleasesSeatsAndIsTerminal(t *testing.T) {
	svc, _, _ := newTestService(model.Arrangement{ID: 1, BasePrice: 100, Capacity: 10})

	reserved, err := svc.Reserve(context.Background(), 1, 1, 4)
	require.NoError(t, err)

	result, err := svc.Cancel(context.Background(), reserved.Reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), result.Released)
	assert.Equal(t, uint64(1), result.ArrangementID)
	assert.Equal(t, uint32(10), result.Remaining)

	// Cancellation is a one-time transition, not a toggle.
	_, err = svc.Cancel(context.Background(), reserved.Reservation.ID)
	assert.ErrorIs(t, err, repository.ErrReservationNotFound)
}

func TestConcurrentReservesNeverOversell(t *testing.T) {
	const (
		totalCapacity = 30
		seatsPerCall  = 5
		callers       = 10
	)
	svc, _, fr := newTestService(model.Arrangement{ID: 1, BasePrice: 100, Capacity: totalCapacity})

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(uid uint64) {
			defer wg.Done()
			_, err := svc.Reserve(context.Background(), 1, uid, seatsPerCall)
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else {
				var capErr *CapacityExceededError
				assert.ErrorAs(t, err, &capErr)
			}
		}(uint64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, totalCapacity/seatsPerCall, succeeded)
	booked, err := fr.SumSeatsForArrangement(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, uint32(totalCapacity), booked)
}

func TestCapacityView(t *testing.T) {
	svc, _, _ := newTestService(model.Arrangement{ID: 1, BasePrice: 100, Capacity: 12})

	_, err := svc.Reserve(context.Background(), 1, 1, 5)
	require.NoError(t, err)

	view, err := svc.Capacity(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, &CapacityView{Total: 12, Booked: 5, Available: 7}, view)

	_, err = svc.Capacity(context.Background(), 2)
	assert.ErrorIs(t, err, repository.ErrArrangementNotFound)
}

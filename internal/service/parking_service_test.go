package service

import (
	"context"
	"testing"
	"vehicle_parking/internal/domain"
	"vehicle_parking/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newParkingFixture() (*ParkingService, *ReservationService, *fakeLotRepo, *fakeSpotRepo, *fakeReservationRepo) {
	lotRepo := newFakeLotRepo()
	spotRepo := newFakeSpotRepo()
	reservationRepo := newFakeReservationRepo(spotRepo)
	ps := NewParkingService(lotRepo, spotRepo, reservationRepo, fakeTxManager{})
	rs := NewReservationService(lotRepo, spotRepo, reservationRepo, fakeTxManager{})
	return ps, rs, lotRepo, spotRepo, reservationRepo
}

func TestCreateAndUpdateParkingLot(t *testing.T) {
	ps, _, _, _, _ := newParkingFixture()

	lot, err := ps.CreateParkingLot(context.Background(), domain.ParkingLotDTO{
		Name:         "Bãi xe Chợ Bến Thành",
		Address:      "Lê Lợi, Quận 1",
		Pincode:      "700000",
		PricePerHour: 25,
		MaxSpots:     10,
	})
	require.NoError(t, err)
	assert.NotZero(t, lot.ID)
	assert.Equal(t, 10, lot.MaxSpots)

	updated, err := ps.UpdateParkingLot(context.Background(), lot.ID, domain.ParkingLotDTO{
		Name:         "Bãi xe Chợ Bến Thành",
		Address:      "Lê Lợi, Quận 1",
		Pincode:      "700000",
		PricePerHour: 30,
		MaxSpots:     12,
	})
	require.NoError(t, err)
	assert.InDelta(t, 30.0, updated.PricePerHour, 1e-9)
	assert.Equal(t, 12, updated.MaxSpots)
}

func TestUpdateParkingLot_NotFound(t *testing.T) {
	ps, _, _, _, _ := newParkingFixture()
	_, err := ps.UpdateParkingLot(context.Background(), 99, domain.ParkingLotDTO{
		Name: "X", Address: "Y", Pincode: "1", PricePerHour: 1, MaxSpots: 1,
	})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteParkingLot_Cascades(t *testing.T) {
	ps, rs, lotRepo, spotRepo, reservationRepo := newParkingFixture()
	lot := seedLot(t, lotRepo, 3, 50)
	other := seedLot(t, lotRepo, 3, 50)

	_, err := rs.Book(context.Background(), lot.ID, 1, domain.BookSpotDTO{
		Name: "A", VehicleNumber: "29A-1", PhoneNumber: "0901",
	})
	require.NoError(t, err)
	kept, err := rs.Book(context.Background(), other.ID, 2, domain.BookSpotDTO{
		Name: "B", VehicleNumber: "29A-2", PhoneNumber: "0902",
	})
	require.NoError(t, err)

	require.NoError(t, ps.DeleteParkingLot(context.Background(), lot.ID))

	// Bãi, chỗ đỗ và đặt chỗ của nó biến mất; bãi khác không bị đụng tới
	_, err = lotRepo.FindByID(context.Background(), lot.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	spots, _ := spotRepo.FindByLotID(context.Background(), lot.ID)
	assert.Empty(t, spots)
	require.Len(t, reservationRepo.reservations, 1)
	_, err = reservationRepo.FindByID(context.Background(), kept.ID)
	assert.NoError(t, err)
}

func TestDeleteParkingLot_NotFound(t *testing.T) {
	ps, _, _, _, _ := newParkingFixture()
	err := ps.DeleteParkingLot(context.Background(), 99)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetLotAvailability(t *testing.T) {
	ps, rs, lotRepo, spotRepo, _ := newParkingFixture()
	lot := seedLot(t, lotRepo, 5, 50)

	// 1 chỗ trống sẵn có + 2 đặt chỗ (1 của user 7, 1 của user 8)
	_, err := spotRepo.Create(context.Background(), &domain.ParkingSpot{LotID: lot.ID, Status: domain.StatusAvailable})
	require.NoError(t, err)
	_, err = rs.Book(context.Background(), lot.ID, 7, domain.BookSpotDTO{
		Name: "A", VehicleNumber: "29A-1", PhoneNumber: "0901",
	})
	require.NoError(t, err)
	_, err = rs.Book(context.Background(), lot.ID, 8, domain.BookSpotDTO{
		Name: "B", VehicleNumber: "29A-2", PhoneNumber: "0902",
	})
	require.NoError(t, err)

	summaries, err := ps.GetLotAvailability(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 2, summaries[0].OccupiedSpots)
	assert.Equal(t, 3, summaries[0].AvailableSpots)
	assert.Equal(t, 1, summaries[0].UserReservations)
}

func TestGetSpotsByLotID_LotNotFound(t *testing.T) {
	ps, _, _, _, _ := newParkingFixture()
	_, err := ps.GetSpotsByLotID(context.Background(), 99)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteReservation_NotFound(t *testing.T) {
	ps, _, _, _, _ := newParkingFixture()
	err := ps.DeleteReservation(context.Background(), 99)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

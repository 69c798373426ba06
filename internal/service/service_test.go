package service

import (
	"context"
	"errors"
	"testing"

	perrors "github.com/abgdnv/petstore/internal/errors"
	"github.com/abgdnv/petstore/internal/store"
	"github.com/abgdnv/petstore/pkg/messaging"
	"github.com/abgdnv/petstore/pkg/messaging/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPublisher is a mock implementation of messaging.Publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event messaging.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func price(p int64) *int64 {
	return &p
}

func str(s string) *string {
	return &s
}

var (
	baymaxDto = PetCreateDto{Name: "Baymax", Type: "dog", Color: "white", Price: price(5000)}
	jackDto   = PetCreateDto{Name: "Jack", Type: "cat", Color: "orange", Price: price(6000)}
)

func newTestService(t *testing.T) (*Service, *MockPublisher) {
	t.Helper()
	publisher := new(MockPublisher)
	return NewService(store.NewInMemoryStore(), publisher), publisher
}

func subject(subject string) any {
	return mock.MatchedBy(func(e messaging.Event) bool { return e.Subject() == subject })
}

func TestService_Create(t *testing.T) {
	// given
	svc, publisher := newTestService(t)
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e events.PetAddedEvent) bool {
		return e.Pet.Name == "Baymax" && e.Pet.Price == 5000
	})).Return(nil).Once()

	// when
	created, err := svc.Create(context.Background(), baymaxDto)

	// then
	require.NoError(t, err)
	assert.Equal(t, &PetDto{Name: "Baymax", Type: "dog", Color: "white", Price: 5000}, created)
	publisher.AssertExpectations(t)
}

func TestService_Create_Invalid(t *testing.T) {
	svc, publisher := newTestService(t)

	_, err := svc.Create(context.Background(), PetCreateDto{Name: "Baymax", Price: price(1)})

	require.ErrorIs(t, err, perrors.ErrInvalidPet)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestService_Create_PublishFailureDoesNotFail(t *testing.T) {
	// given
	svc, publisher := newTestService(t)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	// when
	_, err := svc.Create(context.Background(), baymaxDto)

	// then
	require.NoError(t, err)
	found, err := svc.FindByName(context.Background(), "Baymax")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), found.Price)
}

func TestService_FindAll(t *testing.T) {
	svc, publisher := newTestService(t)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	empty, err := svc.FindAll(context.Background())
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)

	_, _ = svc.Create(context.Background(), baymaxDto)
	_, _ = svc.Create(context.Background(), jackDto)

	all, err := svc.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Baymax", all[0].Name)
	assert.Equal(t, "Jack", all[1].Name)
}

func TestService_Find(t *testing.T) {
	svc, publisher := newTestService(t)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	_, _ = svc.Create(context.Background(), baymaxDto)
	_, _ = svc.Create(context.Background(), jackDto)

	testCases := []struct {
		name     string
		filter   FilterDto
		expected []string
	}{
		{name: "empty filter", filter: FilterDto{}, expected: []string{"Baymax", "Jack"}},
		{name: "by type", filter: FilterDto{Type: str("dog")}, expected: []string{"Baymax"}},
		{name: "by color", filter: FilterDto{Color: str("orange")}, expected: []string{"Jack"}},
		{name: "by price range", filter: FilterDto{MinPrice: price(4500), MaxPrice: price(5500)}, expected: []string{"Baymax"}},
		{name: "no match", filter: FilterDto{Type: str("dog"), Color: str("orange")}, expected: []string{}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.Find(context.Background(), tc.filter)

			require.NoError(t, err)
			names := make([]string, len(got))
			for i, p := range got {
				names[i] = p.Name
			}
			assert.Equal(t, tc.expected, names)
		})
	}
}

func TestService_FindByName_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.FindByName(context.Background(), "Nonexistent")

	require.ErrorIs(t, err, perrors.ErrPetNotFound)
}

func TestService_DeleteByName(t *testing.T) {
	// given
	svc, publisher := newTestService(t)
	publisher.On("Publish", mock.Anything, subject(messaging.PetsAddedSubject)).Return(nil)
	publisher.On("Publish", mock.Anything, subject(messaging.PetsSoldSubject)).Return(nil).Once()
	_, _ = svc.Create(context.Background(), baymaxDto)

	// when
	err := svc.DeleteByName(context.Background(), "Baymax")
	errAgain := svc.DeleteByName(context.Background(), "Baymax")

	// then
	require.NoError(t, err)
	require.NoError(t, errAgain, "deleting an absent pet is a no-op")
	publisher.AssertExpectations(t)
	publisher.AssertNumberOfCalls(t, "Publish", 2)
}

func TestService_UpdatePrice(t *testing.T) {
	// given
	svc, publisher := newTestService(t)
	publisher.On("Publish", mock.Anything, subject(messaging.PetsAddedSubject)).Return(nil)
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e events.PetPriceChangedEvent) bool {
		return e.Name == "Baymax" && e.Price == 2000
	})).Return(nil).Once()
	_, _ = svc.Create(context.Background(), baymaxDto)

	// when
	updated, err := svc.UpdatePrice(context.Background(), "Baymax", PriceUpdateDto{Price: price(2000)})

	// then
	require.NoError(t, err)
	assert.Equal(t, &PetDto{Name: "Baymax", Type: "dog", Color: "white", Price: 2000}, updated)
	publisher.AssertExpectations(t)
}

func TestService_UpdatePrice_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		petName     string
		update      PriceUpdateDto
		expectedErr error
	}{
		{name: "unknown pet", petName: "Nonexistent", update: PriceUpdateDto{Price: price(1)}, expectedErr: perrors.ErrPetNotFound},
		{name: "missing price", petName: "Baymax", update: PriceUpdateDto{}, expectedErr: perrors.ErrInvalidPet},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, publisher := newTestService(t)

			_, err := svc.UpdatePrice(context.Background(), tc.petName, tc.update)

			require.ErrorIs(t, err, tc.expectedErr)
			publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
		})
	}
}

func TestService_Clear(t *testing.T) {
	// given
	svc, publisher := newTestService(t)
	publisher.On("Publish", mock.Anything, subject(messaging.PetsAddedSubject)).Return(nil)
	publisher.On("Publish", mock.Anything, subject(messaging.PetsClearedSubject)).Return(nil).Twice()
	_, _ = svc.Create(context.Background(), baymaxDto)

	// when
	require.NoError(t, svc.Clear(context.Background()))
	require.NoError(t, svc.Clear(context.Background()))

	// then
	all, err := svc.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
	publisher.AssertExpectations(t)
}

func TestFilterDto_IsEmpty(t *testing.T) {
	assert.True(t, FilterDto{}.IsEmpty())
	assert.False(t, FilterDto{MaxPrice: price(0)}.IsEmpty())
}

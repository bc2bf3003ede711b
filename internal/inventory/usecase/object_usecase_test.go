package usecase

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kiwistore/kiwi/internal/inventory/domain"

	apperrors "github.com/kiwistore/kiwi/internal/errors"
)

type mockObjectRepository struct {
	mock.Mock
}

func (m *mockObjectRepository) Create(ctx context.Context, object *domain.Object) error {
	args := m.Called(ctx, object)
	return args.Error(0)
}

func (m *mockObjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Object, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Object), args.Error(1)
}

func (m *mockObjectRepository) Move(ctx context.Context, objectID, locationID uuid.UUID) error {
	args := m.Called(ctx, objectID, locationID)
	return args.Error(0)
}

func (m *mockObjectRepository) UpdateTags(ctx context.Context, objectID uuid.UUID, tags []string) error {
	args := m.Called(ctx, objectID, tags)
	return args.Error(0)
}

func (m *mockObjectRepository) UpdateText(
	ctx context.Context,
	objectID uuid.UUID,
	name, description string,
) error {
	args := m.Called(ctx, objectID, name, description)
	return args.Error(0)
}

func (m *mockObjectRepository) UpdateMetadata(
	ctx context.Context,
	objectID uuid.UUID,
	metadata []byte,
) error {
	args := m.Called(ctx, objectID, metadata)
	return args.Error(0)
}

func (m *mockObjectRepository) Search(
	ctx context.Context,
	q string,
	tags []string,
	locationID *uuid.UUID,
	limit int,
) ([]domain.SearchItem, error) {
	args := m.Called(ctx, q, tags, locationID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SearchItem), args.Error(1)
}

func (m *mockObjectRepository) FuzzySearch(
	ctx context.Context,
	q string,
	limit int,
) ([]domain.FuzzyItem, error) {
	args := m.Called(ctx, q, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FuzzyItem), args.Error(1)
}

type mockLocationRepository struct {
	mock.Mock
}

func (m *mockLocationRepository) Create(ctx context.Context, location *domain.Location) error {
	args := m.Called(ctx, location)
	return args.Error(0)
}

func (m *mockLocationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Location), args.Error(1)
}

func (m *mockLocationRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newObjectUseCase(
	objectRepo *mockObjectRepository,
	locationRepo *mockLocationRepository,
) ObjectUseCase {
	return NewObjectUseCase(objectRepo, locationRepo, testLogger(), nil)
}

func TestCreateObject(t *testing.T) {
	ctx := context.Background()

	t.Run("success normalizes input", func(t *testing.T) {
		objectRepo := &mockObjectRepository{}
		locationRepo := &mockLocationRepository{}

		var created *domain.Object
		objectRepo.On("Create", ctx, mock.AnythingOfType("*domain.Object")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*domain.Object)
			}).
			Return(nil)

		object, err := newObjectUseCase(objectRepo, locationRepo).CreateObject(ctx, CreateObjectInput{
			Name:        "  soldering iron ",
			Description: " 60W iron ",
			Type:        " tool ",
			Tags:        []string{" electronics ", "", "workbench"},
			Metadata:    json.RawMessage(`{"wattage":60}`),
		})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, object, created)
		assert.Equal(t, "soldering iron", created.Name)
		assert.Equal(t, "60W iron", created.Description)
		assert.Equal(t, "tool", created.Type)
		assert.Equal(t, domain.StatusActive, created.Status)
		assert.Equal(t, []string{"electronics", "workbench"}, created.Tags)
		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.Nil(t, created.CurrentLocationID)
	})

	t.Run("checks that the initial location exists", func(t *testing.T) {
		objectRepo := &mockObjectRepository{}
		locationRepo := &mockLocationRepository{}
		locationID := uuid.Must(uuid.NewV7())

		locationRepo.On("Exists", ctx, locationID).Return(true, nil)
		objectRepo.On("Create", ctx, mock.AnythingOfType("*domain.Object")).Return(nil)

		_, err := newObjectUseCase(objectRepo, locationRepo).CreateObject(ctx, CreateObjectInput{
			Name:       "box",
			Type:       "container",
			LocationID: &locationID,
		})
		require.NoError(t, err)
		locationRepo.AssertExpectations(t)
	})

	t.Run("unknown initial location", func(t *testing.T) {
		objectRepo := &mockObjectRepository{}
		locationRepo := &mockLocationRepository{}
		locationID := uuid.Must(uuid.NewV7())

		locationRepo.On("Exists", ctx, locationID).Return(false, nil)

		_, err := newObjectUseCase(objectRepo, locationRepo).CreateObject(ctx, CreateObjectInput{
			Name:       "box",
			Type:       "container",
			LocationID: &locationID,
		})
		assert.ErrorIs(t, err, domain.ErrLocationNotFound)
		objectRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("blank name or type", func(t *testing.T) {
		objectRepo := &mockObjectRepository{}
		locationRepo := &mockLocationRepository{}

		_, err := newObjectUseCase(objectRepo, locationRepo).CreateObject(ctx, CreateObjectInput{
			Name: "  ",
			Type: "tool",
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

		_, err = newObjectUseCase(objectRepo, locationRepo).CreateObject(ctx, CreateObjectInput{
			Name: "iron",
			Type: "",
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("malformed metadata", func(t *testing.T) {
		objectRepo := &mockObjectRepository{}
		locationRepo := &mockLocationRepository{}

		_, err := newObjectUseCase(objectRepo, locationRepo).CreateObject(ctx, CreateObjectInput{
			Name:     "iron",
			Type:     "tool",
			Metadata: json.RawMessage(`{"wattage":`),
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("store failure surfaces", func(t *testing.T) {
		objectRepo := &mockObjectRepository{}
		locationRepo := &mockLocationRepository{}

		objectRepo.On("Create", ctx, mock.AnythingOfType("*domain.Object")).
			Return(apperrors.New("down"))

		_, err := newObjectUseCase(objectRepo, locationRepo).CreateObject(ctx, CreateObjectInput{
			Name: "iron",
			Type: "tool",
		})
		assert.Error(t, err)
	})
}

func TestMoveObject(t *testing.T) {
	ctx := context.Background()
	objectID := uuid.Must(uuid.NewV7())
	locationID := uuid.Must(uuid.NewV7())

	t.Run("success", func(t *testing.T) {
		objectRepo := &mockObjectRepository{}
		locationRepo := &mockLocationRepository{}

		objectRepo.On("Move", ctx, objectID, locationID).Return(nil)

		err := newObjectUseCase(objectRepo, locationRepo).MoveObject(ctx, objectID, locationID)
		assert.NoError(t, err)
	})

	t.Run("missing object surfaces", func(t *testing.T) {
		objectRepo := &mockObjectRepository{}
		locationRepo := &mockLocationRepository{}

		objectRepo.On("Move", ctx, objectID, locationID).Return(domain.ErrObjectNotFound)

		err := newObjectUseCase(objectRepo, locationRepo).MoveObject(ctx, objectID, locationID)
		assert.ErrorIs(t, err, domain.ErrObjectNotFound)
	})
}

func TestUpdateObject(t *testing.T) {
	ctx := context.Background()
	objectID := uuid.Must(uuid.NewV7())

	t.Run("tags are normalized", func(t *testing.T) {
		objectRepo := &mockObjectRepository{}
		locationRepo := &mockLocationRepository{}

		objectRepo.On("UpdateTags", ctx, objectID, []string{"spare", "loaner"}).Return(nil)

		err := newObjectUseCase(objectRepo, locationRepo).
			UpdateTags(ctx, objectID, []string{" spare ", "", "loaner"})
		assert.NoError(t, err)
		objectRepo.AssertExpectations(t)
	})

	t.Run("text requires a name", func(t *testing.T) {
		objectRepo := &mockObjectRepository{}
		locationRepo := &mockLocationRepository{}

		err := newObjectUseCase(objectRepo, locationRepo).UpdateText(ctx, objectID, "  ", "desc")
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		objectRepo.AssertNotCalled(t, "UpdateText", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("text is trimmed", func(t *testing.T) {
		objectRepo := &mockObjectRepository{}
		locationRepo := &mockLocationRepository{}

		objectRepo.On("UpdateText", ctx, objectID, "iron", "60W").Return(nil)

		err := newObjectUseCase(objectRepo, locationRepo).UpdateText(ctx, objectID, " iron ", " 60W ")
		assert.NoError(t, err)
	})

	t.Run("metadata must be valid json", func(t *testing.T) {
		objectRepo := &mockObjectRepository{}
		locationRepo := &mockLocationRepository{}

		err := newObjectUseCase(objectRepo, locationRepo).
			UpdateMetadata(ctx, objectID, json.RawMessage(`not json`))
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("metadata passthrough", func(t *testing.T) {
		objectRepo := &mockObjectRepository{}
		locationRepo := &mockLocationRepository{}

		objectRepo.On("UpdateMetadata", ctx, objectID, []byte(`{"color":"red"}`)).Return(nil)

		err := newObjectUseCase(objectRepo, locationRepo).
			UpdateMetadata(ctx, objectID, json.RawMessage(`{"color":"red"}`))
		assert.NoError(t, err)
	})
}

func TestSearchObjects(t *testing.T) {
	ctx := context.Background()

	t.Run("applies default limit", func(t *testing.T) {
		objectRepo := &mockObjectRepository{}
		locationRepo := &mockLocationRepository{}

		items := []domain.SearchItem{{ObjectID: uuid.Must(uuid.NewV7()), Name: "iron", Rank: 0.9}}
		objectRepo.On("Search", ctx, "iron", []string{}, (*uuid.UUID)(nil), defaultSearchLimit).
			Return(items, nil)

		got, err := newObjectUseCase(objectRepo, locationRepo).Search(ctx, "iron", nil, nil, 0)
		require.NoError(t, err)
		assert.Equal(t, items, got)
	})

	t.Run("caps oversized limit", func(t *testing.T) {
		objectRepo := &mockObjectRepository{}
		locationRepo := &mockLocationRepository{}

		objectRepo.On("Search", ctx, "iron", []string{}, (*uuid.UUID)(nil), maxSearchLimit).
			Return([]domain.SearchItem{}, nil)

		_, err := newObjectUseCase(objectRepo, locationRepo).Search(ctx, "iron", nil, nil, 10000)
		require.NoError(t, err)
		objectRepo.AssertExpectations(t)
	})

	t.Run("query is required", func(t *testing.T) {
		objectRepo := &mockObjectRepository{}
		locationRepo := &mockLocationRepository{}

		_, err := newObjectUseCase(objectRepo, locationRepo).Search(ctx, "   ", nil, nil, 20)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		objectRepo.AssertNotCalled(t, "Search",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("fuzzy query is required", func(t *testing.T) {
		objectRepo := &mockObjectRepository{}
		locationRepo := &mockLocationRepository{}

		_, err := newObjectUseCase(objectRepo, locationRepo).FuzzySearch(ctx, "", 10)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("fuzzy success", func(t *testing.T) {
		objectRepo := &mockObjectRepository{}
		locationRepo := &mockLocationRepository{}

		items := []domain.FuzzyItem{{ObjectID: uuid.Must(uuid.NewV7()), Name: "iron", Score: 0.6}}
		objectRepo.On("FuzzySearch", ctx, "irn", 10).Return(items, nil)

		got, err := newObjectUseCase(objectRepo, locationRepo).FuzzySearch(ctx, "irn", 10)
		require.NoError(t, err)
		assert.Equal(t, items, got)
	})
}

package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiwistore/kiwi/internal/inventory/domain"

	apperrors "github.com/kiwistore/kiwi/internal/errors"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db, mock
}

func foreignKeyViolation() error {
	return &pq.Error{Code: "23503", Message: "insert or update violates foreign key constraint"}
}

func uniqueViolation() error {
	return &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

func TestPostgreSQLObjectRepository_Create(t *testing.T) {
	ctx := context.Background()
	locationID := uuid.Must(uuid.NewV7())

	object := &domain.Object{
		ID:                uuid.Must(uuid.NewV7()),
		Name:              "soldering iron",
		Description:       "60W iron with stand",
		Type:              "tool",
		Tags:              []string{"electronics", "workbench"},
		Metadata:          json.RawMessage(`{"wattage":60}`),
		CurrentLocationID: &locationID,
	}

	t.Run("success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLObjectRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT api_create_object($1, $2, $3, $4, $5, $6, $7)`)).
			WithArgs(object.ID, "soldering iron", "60W iron with stand", "tool",
				pq.Array(object.Tags), `{"wattage":60}`, &locationID).
			WillReturnRows(sqlmock.NewRows([]string{"api_create_object"}).AddRow(object.ID))

		err := repo.Create(ctx, object)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty metadata is sent as null", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLObjectRepository(db)

		bare := &domain.Object{ID: uuid.Must(uuid.NewV7()), Name: "box", Type: "container"}
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT api_create_object`)).
			WithArgs(bare.ID, "box", "", "container", pq.Array([]string(nil)), nil, (*uuid.UUID)(nil)).
			WillReturnRows(sqlmock.NewRows([]string{"api_create_object"}).AddRow(bare.ID))

		err := repo.Create(ctx, bare)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing location maps to location not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLObjectRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT api_create_object`)).
			WillReturnError(foreignKeyViolation())

		err := repo.Create(ctx, object)
		assert.ErrorIs(t, err, domain.ErrLocationNotFound)
	})

	t.Run("duplicate id maps to conflict", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLObjectRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT api_create_object`)).
			WillReturnError(uniqueViolation())

		err := repo.Create(ctx, object)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})
}

func TestPostgreSQLObjectRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	objectID := uuid.Must(uuid.NewV7())
	locationID := uuid.Must(uuid.NewV7())
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLObjectRepository(db)

		rows := sqlmock.NewRows([]string{
			"object_id", "name", "description", "type", "status",
			"current_location_id", "tags", "metadata", "created_at", "updated_at",
		}).AddRow(objectID, "soldering iron", "60W iron", "tool", domain.StatusActive,
			locationID, []byte("{electronics,workbench}"), []byte(`{"wattage":60}`), now, now)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT object_id, name, description, type, status, current_location_id, tags, metadata, created_at, updated_at`)).
			WithArgs(objectID).
			WillReturnRows(rows)

		object, err := repo.GetByID(ctx, objectID)
		require.NoError(t, err)
		assert.Equal(t, objectID, object.ID)
		assert.Equal(t, "soldering iron", object.Name)
		assert.Equal(t, []string{"electronics", "workbench"}, object.Tags)
		assert.JSONEq(t, `{"wattage":60}`, string(object.Metadata))
		require.NotNil(t, object.CurrentLocationID)
		assert.Equal(t, locationID, *object.CurrentLocationID)
	})

	t.Run("null tags and location", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLObjectRepository(db)

		rows := sqlmock.NewRows([]string{
			"object_id", "name", "description", "type", "status",
			"current_location_id", "tags", "metadata", "created_at", "updated_at",
		}).AddRow(objectID, "box", "", "container", domain.StatusActive,
			nil, nil, nil, now, now)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT object_id`)).
			WithArgs(objectID).
			WillReturnRows(rows)

		object, err := repo.GetByID(ctx, objectID)
		require.NoError(t, err)
		assert.Nil(t, object.CurrentLocationID)
		assert.NotNil(t, object.Tags)
		assert.Empty(t, object.Tags)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLObjectRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT object_id`)).
			WithArgs(objectID).
			WillReturnError(sql.ErrNoRows)

		object, err := repo.GetByID(ctx, objectID)
		assert.Nil(t, object)
		assert.ErrorIs(t, err, domain.ErrObjectNotFound)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestPostgreSQLObjectRepository_Move(t *testing.T) {
	ctx := context.Background()
	objectID := uuid.Must(uuid.NewV7())
	locationID := uuid.Must(uuid.NewV7())

	t.Run("success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLObjectRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT api_move_object($1, $2)`)).
			WithArgs(objectID, locationID).
			WillReturnRows(sqlmock.NewRows([]string{"api_move_object"}).AddRow(true))

		err := repo.Move(ctx, objectID, locationID)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing object", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLObjectRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT api_move_object($1, $2)`)).
			WithArgs(objectID, locationID).
			WillReturnRows(sqlmock.NewRows([]string{"api_move_object"}).AddRow(false))

		err := repo.Move(ctx, objectID, locationID)
		assert.ErrorIs(t, err, domain.ErrObjectNotFound)
	})

	t.Run("missing location", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLObjectRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT api_move_object($1, $2)`)).
			WillReturnError(foreignKeyViolation())

		err := repo.Move(ctx, objectID, locationID)
		assert.ErrorIs(t, err, domain.ErrLocationNotFound)
	})
}

func TestPostgreSQLObjectRepository_Updates(t *testing.T) {
	ctx := context.Background()
	objectID := uuid.Must(uuid.NewV7())

	t.Run("update tags", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLObjectRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT api_update_tags($1, $2)`)).
			WithArgs(objectID, pq.Array([]string{"spare"})).
			WillReturnRows(sqlmock.NewRows([]string{"api_update_tags"}).AddRow(true))

		err := repo.UpdateTags(ctx, objectID, []string{"spare"})
		assert.NoError(t, err)
	})

	t.Run("update tags on missing object", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLObjectRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT api_update_tags($1, $2)`)).
			WillReturnRows(sqlmock.NewRows([]string{"api_update_tags"}).AddRow(false))

		err := repo.UpdateTags(ctx, objectID, nil)
		assert.ErrorIs(t, err, domain.ErrObjectNotFound)
	})

	t.Run("update text", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLObjectRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT api_update_text($1, $2, $3)`)).
			WithArgs(objectID, "new name", "new description").
			WillReturnRows(sqlmock.NewRows([]string{"api_update_text"}).AddRow(true))

		err := repo.UpdateText(ctx, objectID, "new name", "new description")
		assert.NoError(t, err)
	})

	t.Run("update metadata", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLObjectRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT api_update_metadata($1, $2)`)).
			WithArgs(objectID, `{"color":"red"}`).
			WillReturnRows(sqlmock.NewRows([]string{"api_update_metadata"}).AddRow(true))

		err := repo.UpdateMetadata(ctx, objectID, []byte(`{"color":"red"}`))
		assert.NoError(t, err)
	})

	t.Run("update failure is wrapped", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLObjectRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT api_update_text($1, $2, $3)`)).
			WillReturnError(errors.New("down"))

		err := repo.UpdateText(ctx, objectID, "a", "b")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrObjectNotFound)
	})
}

func TestPostgreSQLObjectRepository_Search(t *testing.T) {
	ctx := context.Background()
	locationID := uuid.Must(uuid.NewV7())
	firstID := uuid.Must(uuid.NewV7())
	secondID := uuid.Must(uuid.NewV7())

	t.Run("returns ranked items", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLObjectRepository(db)

		rows := sqlmock.NewRows([]string{"object_id", "name", "rank"}).
			AddRow(firstID, "soldering iron", 0.8).
			AddRow(secondID, "soldering wick", 0.4)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT object_id, name, rank FROM api_search_objects($1, $2, $3, $4)`)).
			WithArgs("solder", pq.Array([]string{"electronics"}), &locationID, 20).
			WillReturnRows(rows)

		items, err := repo.Search(ctx, "solder", []string{"electronics"}, &locationID, 20)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, firstID, items[0].ObjectID)
		assert.InDelta(t, 0.8, items[0].Rank, 0.0001)
		assert.Equal(t, "soldering wick", items[1].Name)
	})

	t.Run("no hits yields empty slice", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLObjectRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT object_id, name, rank`)).
			WithArgs("nothing", pq.Array([]string(nil)), (*uuid.UUID)(nil), 20).
			WillReturnRows(sqlmock.NewRows([]string{"object_id", "name", "rank"}))

		items, err := repo.Search(ctx, "nothing", nil, nil, 20)
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("query failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLObjectRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT object_id, name, rank`)).
			WillReturnError(errors.New("down"))

		items, err := repo.Search(ctx, "solder", nil, nil, 20)
		assert.Nil(t, items)
		assert.Error(t, err)
	})
}

func TestPostgreSQLObjectRepository_FuzzySearch(t *testing.T) {
	ctx := context.Background()
	objectID := uuid.Must(uuid.NewV7())

	t.Run("returns scored items", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLObjectRepository(db)

		rows := sqlmock.NewRows([]string{"object_id", "name", "score"}).
			AddRow(objectID, "soldering iron", 0.62)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT object_id, name, score FROM api_fuzzy_search($1, $2)`)).
			WithArgs("soldring", 10).
			WillReturnRows(rows)

		items, err := repo.FuzzySearch(ctx, "soldring", 10)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, objectID, items[0].ObjectID)
		assert.InDelta(t, 0.62, items[0].Score, 0.0001)
	})

	t.Run("query failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLObjectRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT object_id, name, score`)).
			WillReturnError(errors.New("down"))

		items, err := repo.FuzzySearch(ctx, "soldring", 10)
		assert.Nil(t, items)
		assert.Error(t, err)
	})
}

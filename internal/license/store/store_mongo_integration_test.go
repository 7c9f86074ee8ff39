package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Exercises the real MongoDB store. Requires a running instance:
//
//	MONGODB_TEST_URI=mongodb://localhost:27017 go test ./internal/license/store/
func setupMongo(t *testing.T) *MongoStore {
	t.Helper()

	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set, skipping mongo integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	dbName := fmt.Sprintf("licencias_test_%d", time.Now().UnixNano())
	db := client.Database(dbName)
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	st := NewMongo(db)
	require.NoError(t, st.EnsureIndexes(ctx))
	return st
}

func TestMongoStoreRoundTrip(t *testing.T) {
	st := setupMongo(t)
	ctx := context.Background()

	license := testLicense("LIC-1-AAAAAA", "11111111-1", time.Now().UTC().Truncate(time.Millisecond))
	require.NoError(t, st.Insert(ctx, license))

	found, err := st.FindByFolio(ctx, "LIC-1-AAAAAA")
	require.NoError(t, err)
	assert.Equal(t, license.Folio, found.Folio)
	assert.Equal(t, license.PatientID, found.PatientID)
	assert.Equal(t, license.Status, found.Status)
	assert.True(t, license.CreatedAt.Equal(found.CreatedAt))
}

func TestMongoStoreDuplicateFolio(t *testing.T) {
	st := setupMongo(t)
	ctx := context.Background()

	license := testLicense("LIC-2-BBBBBB", "11111111-1", time.Now().UTC())
	require.NoError(t, st.Insert(ctx, license))

	err := st.Insert(ctx, testLicense("LIC-2-BBBBBB", "22222222-2", time.Now().UTC()))
	assert.ErrorIs(t, err, ErrDuplicateFolio)
}

func TestMongoStoreFindByFolioNotFound(t *testing.T) {
	st := setupMongo(t)

	_, err := st.FindByFolio(context.Background(), "LIC-0-ZZZZZZ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMongoStoreFindByPatientNewestFirst(t *testing.T) {
	st := setupMongo(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, st.Insert(ctx, testLicense("LIC-3-CCCCCC", "11111111-1", base.Add(-2*time.Hour))))
	require.NoError(t, st.Insert(ctx, testLicense("LIC-4-DDDDDD", "11111111-1", base)))
	require.NoError(t, st.Insert(ctx, testLicense("LIC-5-EEEEEE", "22222222-2", base.Add(-time.Hour))))

	licenses, err := st.FindByPatient(ctx, "11111111-1")
	require.NoError(t, err)
	require.Len(t, licenses, 2)
	assert.Equal(t, "LIC-4-DDDDDD", licenses[0].Folio)
	assert.Equal(t, "LIC-3-CCCCCC", licenses[1].Folio)
}

func TestMongoStoreDeleteByPatientIdempotent(t *testing.T) {
	st := setupMongo(t)
	ctx := context.Background()

	require.NoError(t, st.Insert(ctx, testLicense("LIC-6-FFFFFF", "33333333-3", time.Now().UTC())))
	require.NoError(t, st.DeleteByPatient(ctx, "33333333-3"))
	require.NoError(t, st.DeleteByPatient(ctx, "33333333-3"))

	licenses, err := st.FindByPatient(ctx, "33333333-3")
	require.NoError(t, err)
	assert.Empty(t, licenses)
}

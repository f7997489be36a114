package repo_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pkordes/seminar-planner/internal/repo"
)

// newMongoRepo returns a PlanRepo over a throwaway database that is dropped
// when the test finishes. Skipped unless TEST_MONGO_URI is set.
func newMongoRepo(t *testing.T) repo.PlanRepo {
	t.Helper()
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set; skipping integration test")
	}
	ctx := context.Background()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database(fmt.Sprintf("seminar_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() { _ = db.Drop(context.Background()) })

	coll := db.Collection(repo.PlanCollection)
	require.NoError(t, repo.EnsureMongoIndexes(ctx, coll))
	return repo.NewMongoPlanRepo(coll)
}

func TestPlanRepo_Mongo(t *testing.T) {
	runPlanRepoContract(t, newMongoRepo)
}

package usecase

import (
	"context"
	"testing"

	"catalog-api/internal/testutil"
	"catalog-api/pkg/storage"
	"catalog-api/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	dir     string
	store   *testutil.Store
	blobs   storage.BlobStore
	faults  *testutil.FaultyBlobs
	config  *utils.Config
	service *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	blobs, err := storage.NewLocalStore(dir, zap.NewNop())
	require.NoError(t, err)

	store := testutil.NewStore()
	config := testutil.Config(dir)
	faults := &testutil.FaultyBlobs{BlobStore: blobs}
	return &fixture{
		dir:     dir,
		store:   store,
		blobs:   blobs,
		faults:  faults,
		config:  config,
		service: NewService(store.Repository(), faults, config, zap.NewNop()),
	}
}

func ptr[T any](v T) *T { return &v }

func assertKind(t *testing.T, err error, kind utils.ErrorKind) *utils.AppError {
	t.Helper()
	require.Error(t, err)
	appErr := utils.AsAppError(err)
	assert.Equal(t, kind, appErr.Kind, "unexpected error: %v", err)
	return appErr
}

var ctx = context.Background()

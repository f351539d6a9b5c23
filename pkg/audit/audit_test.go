package audit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/washlane/washlane/pkg/audit"
)

func TestLogger(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("success event", func(t *testing.T) {
		t.Parallel()

		storage := audit.NewMemoryStorage()
		log := audit.NewLogger(storage)

		err := log.Log(ctx, "business.suspend",
			audit.WithResource("tenant"),
			audit.WithTenantID("t-1"),
			audit.WithMetadata("by", "admin"))
		require.NoError(t, err)

		events := storage.Events()
		require.Len(t, events, 1)
		assert.Equal(t, "business.suspend", events[0].Action)
		assert.Equal(t, audit.ResultSuccess, events[0].Result)
		assert.Equal(t, "t-1", events[0].TenantID)
		assert.Equal(t, "admin", events[0].Metadata["by"])
	})

	t.Run("failure event carries reason", func(t *testing.T) {
		t.Parallel()

		storage := audit.NewMemoryStorage()
		log := audit.NewLogger(storage)

		err := log.LogFailure(ctx, "gate.bypass", "user suspended")
		require.NoError(t, err)

		events := storage.Events()
		require.Len(t, events, 1)
		assert.Equal(t, audit.ResultFailure, events[0].Result)
		assert.Equal(t, "user suspended", events[0].Reason)
	})

	t.Run("missing action rejected", func(t *testing.T) {
		t.Parallel()

		log := audit.NewLogger(audit.NewMemoryStorage())
		err := log.Log(ctx, "")
		assert.ErrorIs(t, err, audit.ErrEventValidation)
	})

	t.Run("context extractors fill ids", func(t *testing.T) {
		t.Parallel()

		storage := audit.NewMemoryStorage()
		log := audit.NewLogger(storage,
			audit.WithTenantIDExtractor(func(ctx context.Context) (string, bool) {
				return "t-9", true
			}),
			audit.WithUserIDExtractor(func(ctx context.Context) (string, bool) {
				return "42", true
			}),
		)

		require.NoError(t, log.Log(ctx, "gate.bypass"))
		events := storage.Events()
		require.Len(t, events, 1)
		assert.Equal(t, "t-9", events[0].TenantID)
		assert.Equal(t, "42", events[0].UserID)
	})
}

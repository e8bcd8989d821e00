package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/manasakl/cowin-notify/internal/config"
	"github.com/manasakl/cowin-notify/internal/entities"
)

func TestNewWithoutChannels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"centers": [{"name": "X", "pincode": 560037, "sessions": [
			{"date": "`+r.URL.Query().Get("date")+`", "min_age_limit": 18, "available_capacity": 2}]}]}`)
	}))
	defer server.Close()

	cfg := &config.Config{
		DBPath: filepath.Join(t.TempDir(), "runs.db"),
		Cowin:  config.CowinConfig{BaseURL: server.URL},
	}
	a, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	inv := a.UseCase.NewInvocation(entities.Query{Days: 2, Pincode: "560037"}, entities.SourceCLI)
	summary, err := a.UseCase.Run(context.Background(), inv)
	require.NoError(t, err)

	assert.Len(t, summary.Table, 2)
	require.NotNil(t, summary.Dispatch)
	assert.Empty(t, summary.Dispatch.Deliveries)

	runs, err := a.UseCase.RecentRuns(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, inv.RunID, runs[0].RunID)
}

func TestNewWithAuditDisabled(t *testing.T) {
	a, err := New(&config.Config{DBPath: config.DBDisabled}, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	runs, err := a.UseCase.RecentRuns(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestNewRejectsBadTelegramChatID(t *testing.T) {
	_, err := New(&config.Config{
		DBPath:   config.DBDisabled,
		Telegram: config.TelegramConfig{BotToken: "123:abc", ChatIDs: []string{"not-a-number"}},
	}, zap.NewNop())
	assert.Error(t, err)
}

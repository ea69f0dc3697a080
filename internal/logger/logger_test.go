package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := FromZap(zap.New(core)).With("component", "OrganismRegistry")

	log.Warn("color already in use", "org_id", "E1", "color", "#ff0000")
	log.Debug("loaded", "rows", 3)

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, "color already in use", entries[0].Message)
	ctx := entries[0].ContextMap()
	require.Equal(t, "OrganismRegistry", ctx["component"])
	require.Equal(t, "E1", ctx["org_id"])
	require.EqualValues(t, 3, entries[1].ContextMap()["rows"])
}

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"production", "development"} {
		log, err := New(mode)
		require.NoError(t, err)
		log.Info("hello")
	}
	NewNop().Error("discarded")
}

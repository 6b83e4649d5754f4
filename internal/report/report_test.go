package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lox/blackjackforbots/internal/statistics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStats() *statistics.Statistics {
	stats := &statistics.Statistics{}
	for _, r := range []statistics.EpisodeResult{
		{Reward: 1.5, DealerUpCard: 10, Steps: 1, PlayerTotal: 21, DealerTotal: 18},
		{Reward: -1, DealerUpCard: 10, Steps: 2, PlayerTotal: 23, DealerTotal: 20, PlayerBust: true},
		{Reward: 1, DealerUpCard: 6, Steps: 1, PlayerTotal: 15, DealerTotal: 22},
		{Reward: 0, DealerUpCard: 11, Steps: 1, PlayerTotal: 19, DealerTotal: 19},
	} {
		stats.Add(r)
	}
	return stats
}

func TestNew(t *testing.T) {
	r := New(Meta{Bot: "chart", Decks: 2, Seed: 9, Elapsed: time.Second}, sampleStats())

	assert.Equal(t, 4, r.Episodes)
	assert.InDelta(t, 1.5/4, r.Mean, 1e-9)
	assert.Equal(t, 1, r.Wins)
	assert.Equal(t, 1, r.Blackjacks)
	assert.Equal(t, 1, r.Pushes)
	assert.Equal(t, 1, r.Losses)
	assert.Equal(t, 1, r.PlayerBusts)
	assert.Equal(t, 1, r.DealerBusts)
	assert.Less(t, r.CI95[0], r.CI95[1])

	require.Len(t, r.UpCards, 3)
	assert.Equal(t, UpCard{Value: 6, Episodes: 1, Mean: 1}, r.UpCards[0])
	assert.Equal(t, UpCard{Value: 10, Episodes: 2, Mean: 0.25}, r.UpCards[1])
	assert.Equal(t, 11, r.UpCards[2].Value)
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	New(Meta{Bot: "stand17", Decks: 1, Seed: 3}, sampleStats()).Print(&buf)

	out := buf.String()
	assert.Contains(t, out, "=== FINAL RESULTS: stand17 bot, 1 deck(s) ===")
	assert.Contains(t, out, "Rounds played: 4")
	assert.Contains(t, out, "Mean: 0.3750 units/round")
	assert.Contains(t, out, "Losses: 1 (25.0%), 1 by player bust")
	assert.Contains(t, out, " A: 1 rounds, +0.000 units/round")
	assert.NotContains(t, out, "Total time", "no timing without elapsed")
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "results.json")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o600))

	r := New(Meta{Bot: "random", Decks: 1, Seed: 5}, sampleStats())
	require.NoError(t, r.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *r, decoded)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not remain")
	assert.Equal(t, "results.json", entries[0].Name())
}

func TestWriteFileMissingDirectory(t *testing.T) {
	t.Parallel()

	r := New(Meta{Bot: "random"}, sampleStats())
	err := r.WriteFile(filepath.Join(t.TempDir(), "missing", "results.json"))
	assert.ErrorContains(t, err, "failed to create temp file")
}

package settings

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/morse-beacon/internal/domain/device"
)

// TestFileRepository_NotFound verifies Load returns ErrNotFound for missing file.
func TestFileRepository_NotFound(t *testing.T) {
	t.Parallel()
	repo := NewFileRepository(filepath.Join(t.TempDir(), "missing.json"))
	s, err := repo.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
	require.Nil(t, s)
}

// TestFileRepository_SaveLoad_Roundtrip ensures Save followed by Load returns equal settings.
func TestFileRepository_SaveLoad_Roundtrip(t *testing.T) {
	t.Parallel()
	file := filepath.Join(t.TempDir(), "state.json")
	repo := NewFileRepository(file)

	ts := time.Now().UTC().Truncate(time.Second)
	want := &device.Settings{
		Intensity: 200,
		UpdatedAt: ts,
		UpdatedBy: &device.Actor{
			Hostname: "bench-01",
			Username: "o.shokin",
		},
	}

	require.NoError(t, repo.Save(context.Background(), want))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, want.Intensity, got.Intensity)
	require.True(t, want.UpdatedAt.Equal(got.UpdatedAt))
	require.Equal(t, want.UpdatedBy, got.UpdatedBy)

	_, err = os.Stat(file)
	require.NoError(t, err)
}

// TestFileRepository_MinimalSettings verifies that optional fields may be absent.
func TestFileRepository_MinimalSettings(t *testing.T) {
	t.Parallel()
	repo := NewFileRepository(filepath.Join(t.TempDir(), "state.json"))

	require.NoError(t, repo.Save(context.Background(), &device.Settings{}))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, &device.Settings{}, got)
}

// TestFileRepository_Corrupted verifies out-of-range and malformed files are rejected.
func TestFileRepository_Corrupted(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"missing intensity": `{"updated_at": "2025-01-01T00:00:00Z"}`,
		"negative":          `{"intensity": -1}`,
		"too large":         `{"intensity": 256}`,
		"fractional":        `{"intensity": 1.5}`,
		"bad timestamp":     `{"intensity": 1, "updated_at": "yesterday"}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			file := filepath.Join(t.TempDir(), "state.json")
			require.NoError(t, os.WriteFile(file, []byte(body), 0o600))

			_, err := NewFileRepository(file).Load(context.Background())
			require.ErrorIs(t, err, ErrCorrupted)
		})
	}

	file := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(file, []byte("not json"), 0o600))

	_, err := NewFileRepository(file).Load(context.Background())
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrCorrupted)

	require.ErrorIs(t, NewFileRepository(file).Save(context.Background(), nil), ErrCorrupted)
}

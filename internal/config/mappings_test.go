package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMappings(t *testing.T) {
	m := DefaultMappings()

	assert.Equal(t, "Alexandre Petit", m.Technicians.Aliases["A. PETIT"])
	assert.Equal(t, "Céline Lefebvre", m.Technicians.Aliases["Celine Lefebvre"])
	assert.Len(t, m.Technicians.Initials, 6)
	assert.Equal(t, "Nicolas", m.Technicians.Initials["N"])
	assert.Equal(t, "Panne Électrique", m.FaultTypes["Panne Electrique"])
	assert.Equal(t, "Fuite", m.FaultTypes["Fuites"])
	assert.Equal(t, "None", m.Parts.NoneLabel)
	assert.Contains(t, m.Parts.NoneTokens, "Aucune")
	assert.Contains(t, m.Parts.NoneTokens, "")
}

func TestLoadMappings(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		m, err := LoadMappings("")
		require.NoError(t, err)
		assert.Equal(t, DefaultMappings(), m)
	})

	t.Run("partial file falls back per section", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mappings.yaml")
		content := "fault_types:\n  \"elec\": Panne Électrique\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		m, err := LoadMappings(path)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"elec": "Panne Électrique"}, m.FaultTypes)
		assert.Equal(t, DefaultMappings().Technicians, m.Technicians)
		assert.Equal(t, "None", m.Parts.NoneLabel)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadMappings(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestParseMappingsValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "multi letter initial",
			yaml:    "technicians:\n  initials:\n    AB: Alain\n",
			wantErr: "single letter",
		},
		{
			name:    "empty alias target",
			yaml:    "technicians:\n  aliases:\n    \"X\": \"\"\n",
			wantErr: "empty name",
		},
		{
			name:    "delimiter in none label",
			yaml:    "parts:\n  none_label: \"a,b\"\n",
			wantErr: "delimiter",
		},
		{
			name:    "unknown section",
			yaml:    "machines:\n  - M-1\n",
			wantErr: "machines",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMappings([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWatchMappingsReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mappings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fault_types:\n  \"a\": Alpha\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Mappings, 4)
	done := make(chan error, 1)
	go func() {
		done <- WatchMappings(ctx, path, nil, func(m *Mappings) { reloaded <- m })
	}()

	// give the watcher time to register before writing
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("fault_types:\n  \"b\": Beta\n"), 0644))

	select {
	case m := <-reloaded:
		assert.Equal(t, "Beta", m.FaultTypes["b"])
	case <-time.After(5 * time.Second):
		t.Fatal("mappings were not reloaded")
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestWatchMappingsReloadsOnAtomicSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mappings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fault_types:\n  \"a\": Alpha\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Mappings, 4)
	done := make(chan error, 1)
	go func() {
		done <- WatchMappings(ctx, path, nil, func(m *Mappings) { reloaded <- m })
	}()

	time.Sleep(100 * time.Millisecond)

	saves := []struct {
		key  string
		want string
	}{
		{key: "fuite a", want: "Fuite A"},
		{key: "fuite b", want: "Fuite B"},
	}
	for _, s := range saves {
		t.Run(s.want, func(t *testing.T) {
			tmp, err := os.CreateTemp(dir, ".mappings-*.tmp")
			require.NoError(t, err)
			_, err = tmp.WriteString("fault_types:\n  \"" + s.key + "\": " + s.want + "\n")
			require.NoError(t, err)
			require.NoError(t, tmp.Close())
			require.NoError(t, os.Rename(tmp.Name(), path))

			select {
			case m := <-reloaded:
				assert.Equal(t, s.want, m.FaultTypes[s.key])
			case <-time.After(5 * time.Second):
				t.Fatal("mappings were not reloaded after rename")
			}
		})
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestWatchMappingsIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mappings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fault_types:\n  \"a\": Alpha\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Mappings, 4)
	done := make(chan error, 1)
	go func() {
		done <- WatchMappings(ctx, path, nil, func(m *Mappings) { reloaded <- m })
	}()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0644))

	select {
	case <-reloaded:
		t.Fatal("reload triggered by an unrelated file")
	case <-time.After(500 * time.Millisecond):
	}

	cancel()
	assert.NoError(t, <-done)
}

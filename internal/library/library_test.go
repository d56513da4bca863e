package library

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"musicify/internal/logging"
	"musicify/pkg/models"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/wav"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFormats = []string{".mp3", ".wav", ".flac", ".ogg"}

func touch(t *testing.T, path string, content []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, content, 0644))
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	h1 := r.Handle("/music/a.mp3")
	assert.True(t, strings.HasPrefix(h1, HandlePrefix))
	assert.True(t, r.IsHandle(h1))
	assert.False(t, r.IsHandle("/music/a.mp3"))
	assert.Equal(t, h1, r.Handle("/music/a.mp3"), "same file keeps its handle")

	h2 := r.Handle("/music/b.mp3")
	assert.NotEqual(t, h1, h2)

	path, ok := r.Resolve(h1)
	require.True(t, ok)
	assert.Equal(t, "/music/a.mp3", path)

	r.Revoke("/music/a.mp3")
	_, ok = r.Resolve(h1)
	assert.False(t, ok)
	assert.Equal(t, 1, r.Len())

	_, ok = NewRegistry().Resolve(h2)
	assert.False(t, ok, "handles do not outlive their registry")
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "b - second.mp3"), nil)
	touch(t, filepath.Join(root, "A - first.MP3"), nil)
	touch(t, filepath.Join(root, "sub", "deep.flac"), nil)
	touch(t, filepath.Join(root, "cover.jpg"), nil)
	touch(t, filepath.Join(root, "notes.txt"), []byte("hello"))
	touch(t, filepath.Join(root, ".hidden.mp3"), nil)
	touch(t, filepath.Join(root, ".cache", "x.mp3"), nil)
	touch(t, filepath.Join(root, "noext"), append([]byte("fLaC"), make([]byte, 32)...))
	touch(t, filepath.Join(root, "plain"), []byte("just some text here"))

	registry := NewRegistry()
	scanner := NewScanner(registry, testFormats, logging.Discard())

	refs, err := scanner.Scan(context.Background(), root)
	require.NoError(t, err)

	names := lo.Map(refs, func(r models.TrackRef, _ int) string { return r.Name })
	assert.Equal(t, []string{"A - first.MP3", "b - second.mp3", "noext", "deep.flac"}, names)

	for _, ref := range refs {
		path, ok := registry.Resolve(ref.Path)
		require.True(t, ok)
		assert.Equal(t, ref.Name, filepath.Base(path))
	}

	again, err := scanner.Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, refs, again, "rescans keep handles stable")
}

func TestScanEmptyAndMissing(t *testing.T) {
	scanner := NewScanner(NewRegistry(), testFormats, logging.Discard())

	refs, err := scanner.Scan(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, refs)

	_, err = scanner.Scan(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestScanCancelled(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.mp3"), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewScanner(NewRegistry(), testFormats, logging.Discard()).Scan(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProbeWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Artist - Tone.wav")
	format := beep.Format{SampleRate: 8000, NumChannels: 1, Precision: 2}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, wav.Encode(f, generators.Silence(8000), format))
	require.NoError(t, f.Close())

	info, err := Probe(path)
	require.NoError(t, err)
	assert.Equal(t, "Artist - Tone", info.Title)
	assert.Empty(t, info.Artist)
	assert.Equal(t, time.Second, info.Duration)
	assert.Positive(t, info.Size)
}

func TestProbeUnknownDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.mp3")
	touch(t, path, []byte("definitely not mpeg audio"))

	info, err := Probe(path)
	require.NoError(t, err)
	assert.Equal(t, "broken", info.Title)
	assert.Zero(t, info.Duration)

	_, err = Probe(filepath.Join(t.TempDir(), "missing.mp3"))
	assert.Error(t, err)
}

func TestWatcherReportsNewFiles(t *testing.T) {
	root := t.TempDir()
	registry := NewRegistry()
	scanner := NewScanner(registry, testFormats, logging.Discard())

	changed := make(chan struct{}, 4)
	w, err := NewWatcher(scanner, root, 20*time.Millisecond, func() { changed <- struct{}{} }, logging.Discard())
	require.NoError(t, err)
	defer w.Close()

	touch(t, filepath.Join(root, "new.mp3"), nil)
	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not report the new file")
	}

	handle := registry.Handle(filepath.Join(root, "new.mp3"))
	require.NoError(t, os.Remove(filepath.Join(root, "new.mp3")))
	require.Eventually(t, func() bool {
		_, ok := registry.Resolve(handle)
		return !ok
	}, 3*time.Second, 10*time.Millisecond, "removed file keeps its handle")

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}

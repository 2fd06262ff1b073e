package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherEmitsProjectFileChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "world.ldtk"), []byte("{}"), 0o644))

	select {
	case name := <-w.Events:
		assert.Equal(t, "world.ldtk", filepath.Base(name))
	case <-time.After(5 * time.Second):
		t.Fatal("no event for world.ldtk")
	}
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "level.ldtkl"), []byte("{}"), 0o644))

	select {
	case name := <-w.Events:
		assert.Equal(t, "level.ldtkl", filepath.Base(name))
	case <-time.After(5 * time.Second):
		t.Fatal("no event for level.ldtkl")
	}
}

func TestWatcherCloseDrainsCleanly(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)

	// Churn files while shutting down; the events channel must close
	// without a send racing it.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			_ = os.WriteFile(filepath.Join(dir, "world.ldtk"), []byte("{}"), 0o644)
		}
	}()

	require.NoError(t, w.Close())
	assert.NoError(t, w.Close(), "closing twice is safe")
	<-done

	select {
	case _, ok := <-w.Events:
		if ok {
			// A send already in flight when Close ran may still land; the
			// channel closes right after.
			_, ok = <-w.Events
			assert.False(t, ok)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("events channel never closed")
	}
}

func TestIsProjectFile(t *testing.T) {
	assert.True(t, isProjectFile("maps/world.ldtk"))
	assert.True(t, isProjectFile("maps/Level_0.LDTKL"))
	assert.True(t, isProjectFile("maps/world.json"))
	assert.False(t, isProjectFile("maps/terrain.png"))
	assert.False(t, isProjectFile("maps/world.ldtk.bak"))
}

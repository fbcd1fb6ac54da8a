package upload

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_Lifecycle(t *testing.T) {
	tr := NewTracker()

	id := tr.Begin()

	task, ok := tr.Get(id)
	require.True(t, ok)
	assert.False(t, task.Done)
	assert.Zero(t, task.Progress)

	tr.SetProgress(id, 40)
	task, _ = tr.Get(id)
	assert.InDelta(t, 40, task.Progress, 0.001)

	tr.Complete(id, "http://storage.local/thumbnails/photo.png")
	task, _ = tr.Get(id)
	assert.True(t, task.Done)
	assert.InDelta(t, 100, task.Progress, 0.001)
	assert.Equal(t, "http://storage.local/thumbnails/photo.png", task.URL)
	assert.Empty(t, task.Error)
}

func TestTracker_Fail(t *testing.T) {
	tr := NewTracker()

	id := tr.Begin()
	tr.Fail(id, "failed to upload image")

	task, ok := tr.Get(id)
	require.True(t, ok)
	assert.True(t, task.Done)
	assert.Equal(t, "failed to upload image", task.Error)
	assert.Empty(t, task.URL)
}

func TestTracker_ProgressAfterDoneIgnored(t *testing.T) {
	tr := NewTracker()

	id := tr.Begin()
	tr.Complete(id, "url")
	tr.SetProgress(id, 10)

	task, _ := tr.Get(id)
	assert.InDelta(t, 100, task.Progress, 0.001)
}

func TestTracker_UnknownTask(t *testing.T) {
	tr := NewTracker()

	_, ok := tr.Get(uuid.New())
	assert.False(t, ok)
}

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestActivityLogAppendsCycleRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.log")
	activity := newActivityLog(path)

	activity.cycleStart(1, 2)
	outcome := newSyncOutcome(SyncConfig{SourceFolder: "/data", DestinationBucket: "bkt", Prefix: "p"})
	outcome.recordUpload("a.txt", nil)
	outcome.Duration = 120 * time.Millisecond
	activity.pairResult(1, outcome)
	activity.cycleEnd(1, false)
	assert.NoError(t, activity.Close())

	raw, readErr := os.ReadFile(path)
	assert.NoError(t, readErr)
	content := string(raw)
	assert.Contains(t, content, "cycle=1 event=start pairs=2")
	assert.Contains(t, content, "source=/data dest=bkt/p status=success uploaded=1")
	assert.Contains(t, content, "cycle=1 event=end status=success")
}

func TestActivityLogNilIsSafe(t *testing.T) {
	var activity *activityLog
	activity.cycleStart(1, 1)
	activity.pairResult(1, newSyncOutcome(SyncConfig{}))
	activity.cycleEnd(1, true)
	assert.NoError(t, activity.Close())
}

func TestActivityLogDisabledForEmptyPath(t *testing.T) {
	assert.Nil(t, newActivityLog(""))
}

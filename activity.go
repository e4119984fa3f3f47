package main

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// activityLog is the append-only audit trail: one line per cycle boundary
// and per pair result. It is write-only observability, never read back.
// All methods are nil-safe so a disabled log costs nothing at call sites.
type activityLog struct {
	out io.WriteCloser
}

func newActivityLog(path string) *activityLog {
	if path == "" {
		return nil
	}
	return &activityLog{
		out: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
		},
	}
}

func (a *activityLog) write(line string) {
	if a == nil {
		return
	}
	fmt.Fprintf(a.out, "%s %s\n", time.Now().Format(time.RFC3339), line)
}

func (a *activityLog) cycleStart(cycle, pairs int) {
	a.write(fmt.Sprintf("cycle=%d event=start pairs=%d", cycle, pairs))
}

func (a *activityLog) pairResult(cycle int, outcome *SyncOutcome) {
	uploaded, deleted, tombstoned := outcome.Counts()
	a.write(fmt.Sprintf("cycle=%d event=pair source=%s dest=%s status=%s uploaded=%d deleted=%d tombstoned=%d errors=%d duration=%s",
		cycle,
		outcome.Pair.SourceFolder,
		outcome.Pair.Destination(),
		outcome.Status(),
		uploaded, deleted, tombstoned,
		len(outcome.Errors()),
		outcome.Duration.Round(time.Millisecond)))
}

func (a *activityLog) cycleEnd(cycle int, failed bool) {
	status := "success"
	if failed {
		status = "failed"
	}
	a.write(fmt.Sprintf("cycle=%d event=end status=%s", cycle, status))
}

func (a *activityLog) Close() error {
	if a == nil {
		return nil
	}
	return a.out.Close()
}

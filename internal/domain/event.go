package domain

// Stage of an acquisition run. Transitions are linear; StageFailed and
// StageCancelled are terminal from any non-terminal stage.
type Stage string

const (
	StageIdle        Stage = "idle"
	StageFetching    Stage = "fetching"
	StageReconciling Stage = "reconciling"
	StageDownloading Stage = "downloading"
	StageSummarizing Stage = "summarizing"
	StageDone        Stage = "done"
	StageFailed      Stage = "failed"
	StageCancelled   Stage = "cancelled"
)

func (s Stage) Terminal() bool {
	return s == StageDone || s == StageFailed || s == StageCancelled
}

// ProgressEvent is emitted on every stage transition and on download
// progress. The core makes no assumption about how, or whether, events are
// displayed.
type ProgressEvent struct {
	Username string
	Stage    Stage
	Message  string
	Current  int
	Total    int
}

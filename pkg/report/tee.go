package report

import "context"

// teeReporter duplicates every entry to several reporters.
type teeReporter struct {
	reporters []Reporter
}

// Tee returns a Reporter writing to all of reporters in order.
// On abort, every reporter except the last one records the abort without unwinding,
// and the last one performs the actual abort.
func Tee(reporters ...Reporter) Reporter {
	return &teeReporter{reporters: reporters}
}

func (t *teeReporter) LogInfo(ctx context.Context, text string) {
	for _, r := range t.reporters {
		r.LogInfo(ctx, text)
	}
}

func (t *teeReporter) LogDebug(ctx context.Context, text string) {
	for _, r := range t.reporters {
		r.LogDebug(ctx, text)
	}
}

func (t *teeReporter) SaveAttachmentContent(ctx context.Context, content []byte, filename, description string) {
	for _, r := range t.reporters {
		r.SaveAttachmentContent(ctx, content, filename, description)
	}
}

func (t *teeReporter) LogCheck(ctx context.Context, description string, passed bool, details string) {
	for _, r := range t.reporters {
		r.LogCheck(ctx, description, passed, details)
	}
}

func (t *teeReporter) AbortTest(ctx context.Context, reason error) {
	if len(t.reporters) == 0 {
		Abort(reason)
	}

	last := len(t.reporters) - 1
	for _, r := range t.reporters[:last] {
		_ = CatchAbort(func() { r.AbortTest(ctx, reason) })
	}

	t.reporters[last].AbortTest(ctx, reason)
}

package review

import (
	"context"
	"fmt"
	"time"

	"github.com/quizsmith/review-go/review/emit"
)

// ReviewBatch reviews questions strictly sequentially, pausing between
// questions to respect upstream rate limits. Results come back in input
// order, one per question; a question that hit a system error yields a
// StatusError result and the batch keeps going.
//
// Cancelling ctx stops the batch at the next question boundary; the
// remaining questions yield StatusError results naming the
// cancellation.
func (p *Pipeline) ReviewBatch(ctx context.Context, questions []Question) []ReviewResult {
	results := make([]ReviewResult, len(questions))

	for i, q := range questions {
		if i > 0 && p.opts.QuestionPause > 0 {
			select {
			case <-time.After(p.opts.QuestionPause):
			case <-ctx.Done():
			}
		}
		if err := ctx.Err(); err != nil {
			for j := i; j < len(questions); j++ {
				results[j] = cancelledResult(questions[j], err)
			}
			p.emitBatch(i, len(questions), "batch cancelled")
			return results
		}

		p.emitBatch(i+1, len(questions), fmt.Sprintf("reviewing %s (%d/%d)", q.Code, i+1, len(questions)))
		results[i] = p.Review(ctx, q)
	}

	p.emitBatch(len(questions), len(questions), "batch complete")
	return results
}

func (p *Pipeline) emitBatch(index, total int, msg string) {
	p.emitter.Emit(emit.Event{
		Agent: "batch",
		Level: emit.LevelInfo,
		Msg:   msg,
		Meta:  map[string]interface{}{"index": index, "total": total},
	})
}

func cancelledResult(q Question, err error) ReviewResult {
	serr := &SystemError{Message: "batch cancelled before review", Cause: err}
	return ReviewResult{
		Code:       q.Code,
		Status:     StatusError,
		NeedsHuman: true,
		Summary:    "Needs human review: " + serr.Error(),
		Log:        []string{serr.Error()},
	}
}

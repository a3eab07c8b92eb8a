package sched

import (
	"context"
	"errors"
	"time"

	"github.com/kilianp07/stripboard/core/oracle"
)

// ErrNoScenes is returned when a stage receives an empty scene set.
var ErrNoScenes = errors.New("sched: no scenes to schedule")

// proposeAndExtract runs one oracle call under the configured timeout and
// recovers the JSON object from the proposal. Any failure here, transport or
// timeout or unrecoverable output, sends the calling stage down its fallback
// path.
func proposeAndExtract(ctx context.Context, o oracle.Oracle, timeout time.Duration, stage oracle.Stage, payload any) ([]byte, error) {
	req, err := oracle.NewRequest(stage, payload)
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	raw, err := o.ProposePlan(ctx, req)
	if err != nil {
		return nil, err
	}
	return oracle.ExtractJSON(string(raw))
}

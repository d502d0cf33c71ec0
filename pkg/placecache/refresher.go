package placecache

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tablenote/place-cache/pkg/provider"
)

// Refresher runs the fetch-and-write-back path for records a caller has
// already loaded and found stale, without blocking the caller.
//
// Refreshes are fire-and-forget: there is no result, no retry and no
// cancellation. Failures are logged through the error sink and abandoned.
// Nothing bounds how many refreshes run at once; a list-rendering loop
// may fire one per stale record.
type Refresher struct {
	coord  *Coordinator
	logger zerolog.Logger
	wg     sync.WaitGroup
}

// NewRefresher creates a refresher sharing the coordinator's store,
// taxonomy and clock.
func NewRefresher(coord *Coordinator) *Refresher {
	return &Refresher{
		coord:  coord,
		logger: coord.logger.With().Str("component", "place-refresher").Logger(),
	}
}

// SetErrorSink replaces the logger that receives refresh failures.
func (r *Refresher) SetErrorSink(logger zerolog.Logger) {
	r.logger = logger
}

// Refresh fetches current provider data for a record and writes it back,
// in a detached goroutine. The caller does not wait and never sees the
// outcome.
func (r *Refresher) Refresh(recordID, externalID string, adapter provider.Adapter) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		// Detached from the caller's request context: the refresh
		// outlives the call that triggered it.
		r.refreshOnce(context.Background(), recordID, externalID, adapter)
	}()
}

// Wait blocks until all in-flight refreshes have finished. Used during
// shutdown and by tests.
func (r *Refresher) Wait() {
	r.wg.Wait()
}

func (r *Refresher) refreshOnce(ctx context.Context, recordID, externalID string, adapter provider.Adapter) {
	if recordID == "" || externalID == "" || adapter == nil {
		refreshesTotal.WithLabelValues("abandoned").Inc()
		r.logger.Warn().
			Str("record_id", recordID).
			Str("external_id", externalID).
			Msg("Refresh skipped, incomplete arguments")
		return
	}

	rec, err := adapter.Fetch(ctx, externalID)
	if err != nil || rec == nil {
		refreshesTotal.WithLabelValues("abandoned").Inc()
		r.logger.Warn().
			Err(err).
			Str("record_id", recordID).
			Str("external_id", externalID).
			Msg("Background refresh abandoned")
		return
	}

	upd := normalize(rec, r.coord.clock.Now())
	if _, err := r.coord.store.UpdateByID(ctx, recordID, upd); err != nil {
		refreshesTotal.WithLabelValues("write_failed").Inc()
		r.logger.Warn().
			Err(err).
			Str("record_id", recordID).
			Str("external_id", externalID).
			Msg("Background refresh write-back failed")
		return
	}

	refreshesTotal.WithLabelValues("success").Inc()
	r.logger.Debug().
		Str("record_id", recordID).
		Str("external_id", externalID).
		Msg("Background refresh complete")
}

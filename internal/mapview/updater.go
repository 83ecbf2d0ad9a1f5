package mapview

import (
	"context"

	"github.com/oakwood-commons/skinkit/pkg/logger"
)

type request struct {
	fn   func(*Tx)
	done chan error
}

// Updater owns the map grid. Mutations are sent to its goroutine, applied
// in order, and each applied update is published as a Batch, so a mutation
// always happens before the redraw that shows it.
type Updater struct {
	grid *Grid
	in   chan request
	out  chan Batch
}

// NewUpdater returns an updater for a w×h map. Run must be started before
// Update is called.
func NewUpdater(w, h int) *Updater {
	return &Updater{
		grid: NewGrid(w, h),
		in:   make(chan request),
		out:  make(chan Batch, 64),
	}
}

// Batches delivers one Batch per applied update. It is closed when Run
// returns.
func (u *Updater) Batches() <-chan Batch {
	return u.out
}

// Run applies updates until ctx is cancelled.
func (u *Updater) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithName("mapview")
	log.V(1).Info("map updater started", "width", u.grid.size.X, "height", u.grid.size.Y)
	defer close(u.out)
	for {
		select {
		case <-ctx.Done():
			log.V(1).Info("map updater stopped")
			return nil
		case req := <-u.in:
			tx := &Tx{g: u.grid}
			req.fn(tx)
			b := tx.batch()
			select {
			case u.out <- b:
			case <-ctx.Done():
				req.done <- ctx.Err()
				return nil
			}
			log.V(2).Info("map update", "changed", len(b.Changed), "scrolls", len(b.Scrolls), "new_map", b.NewMap)
			req.done <- tx.err
		}
	}
}

// Update runs fn on the updater goroutine and waits until its batch is
// published. It returns the first invalid mutation of fn, if any; valid
// mutations of fn are applied regardless.
func (u *Updater) Update(ctx context.Context, fn func(*Tx)) error {
	req := request{fn: fn, done: make(chan error, 1)}
	select {
	case u.in <- req:
	case <-ctx.Done():
		return ctx.Err()
	}
	return <-req.done
}

// SetFace sets one face.
func (u *Updater) SetFace(ctx context.Context, x, y, layer int, f FaceID) error {
	return u.Update(ctx, func(tx *Tx) { tx.SetFace(x, y, layer, f) })
}

// Scroll scrolls the map by (dx, dy) squares.
func (u *Updater) Scroll(ctx context.Context, dx, dy int) error {
	return u.Update(ctx, func(tx *Tx) { tx.Scroll(dx, dy) })
}

// NewMap starts an empty map.
func (u *Updater) NewMap(ctx context.Context, w, h int) error {
	return u.Update(ctx, func(tx *Tx) { tx.NewMap(w, h) })
}

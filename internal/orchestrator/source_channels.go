package orchestrator

import "github.com/drasi-project/drasi-server/internal/component"

// setSourceChannel records the channel a just-started source writes raw
// ChangeEvents into, so a later Stop can close it and unwind the forwarding
// goroutine below.
func (o *Orchestrator) setSourceChannel(id string, ch chan component.ChangeEvent) {
	o.chMu.Lock()
	defer o.chMu.Unlock()
	o.sourceChannels[id] = ch
}

// closeSourceChannel closes and forgets id's producer channel, if any. Safe
// to call more than once or on an id that never started.
func (o *Orchestrator) closeSourceChannel(id string) {
	o.chMu.Lock()
	ch, ok := o.sourceChannels[id]
	if ok {
		delete(o.sourceChannels, id)
	}
	o.chMu.Unlock()
	if ok {
		close(ch)
	}
}

// forwardSourceEvents drains a source's producer channel into the
// DataRouter, stamping SourceID so the Source plugin itself need not. It
// exits once ch is closed by closeSourceChannel.
func (o *Orchestrator) forwardSourceEvents(id string, ch chan component.ChangeEvent) {
	for ev := range ch {
		ev.SourceID = id
		o.dataRouter.Publish(o.ctx, ev)
	}
}

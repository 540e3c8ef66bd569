package watcher

import "time"

// Options configures the file watcher behavior.
type Options struct {
	// SettleDelay is how long the file must stay quiet before an event is
	// emitted. Editors and sheet exports often write in several steps.
	SettleDelay time.Duration
}

func (o *Options) setDefaults() {
	if o.SettleDelay <= 0 {
		o.SettleDelay = 250 * time.Millisecond
	}
}

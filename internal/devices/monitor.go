//go:build linux

package devices

import (
	"context"
	"time"

	"github.com/smazurov/mediactl/pkg/linuxav/hotplug"
)

// settleDelay gives the kernel time to finish creating the device
// nodes that accompany a freshly attached device before rescanning.
var settleDelay = time.Second

// Watch performs an initial scan and then keeps the inventory current
// from kernel hotplug events. It blocks until ctx is cancelled.
func (r *Registry) Watch(ctx context.Context) error {
	mon, err := hotplug.NewMonitor()
	if err != nil {
		return err
	}
	defer func() { _ = mon.Close() }()

	mon.AddSubsystemFilter(hotplug.SubsystemVideo4Linux)
	mon.AddSubsystemFilter(hotplug.SubsystemMedia)

	r.Rescan()

	ch := make(chan hotplug.Event, 16)
	go r.consume(ctx, ch)

	r.logger.Info("Hotplug monitoring started")
	return mon.Run(ctx, ch)
}

// consume rescans on add and remove events until the channel closes.
func (r *Registry) consume(ctx context.Context, ch <-chan hotplug.Event) {
	for ev := range ch {
		switch ev.Action {
		case hotplug.ActionAdd:
			r.logger.Debug("Hotplug add", "subsystem", ev.Subsystem, "node", ev.Node())
			select {
			case <-ctx.Done():
				return
			case <-time.After(settleDelay):
			}
			r.Rescan()
		case hotplug.ActionRemove:
			r.logger.Debug("Hotplug remove", "subsystem", ev.Subsystem, "node", ev.Node())
			r.Rescan()
		}
	}
}

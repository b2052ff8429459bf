package app

import (
	"context"

	"github.com/sirupsen/logrus"

	"sisnompeg_admin/internal/domain/notify"
)

// FanoutNotifier delivers through a primary channel and mirrors successful
// deliveries to secondary channels. Only the primary decides the outcome;
// mirror failures are logged.
type FanoutNotifier struct {
	primary notify.Notifier
	mirrors []notify.Notifier
	log     *logrus.Entry
}

func NewFanoutNotifier(primary notify.Notifier, log *logrus.Entry, mirrors ...notify.Notifier) *FanoutNotifier {
	return &FanoutNotifier{primary: primary, mirrors: mirrors, log: log}
}

func (n *FanoutNotifier) Notify(ctx context.Context, msg notify.Message) error {
	if err := n.primary.Notify(ctx, msg); err != nil {
		return err
	}
	for _, m := range n.mirrors {
		if err := m.Notify(ctx, msg); err != nil {
			n.log.WithError(err).WithField("subject", msg.Subject).Warn("Failed to mirror notification")
		}
	}
	return nil
}

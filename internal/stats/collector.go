package stats

import (
	"context"
	"log/slog"
	"time"

	"github.com/contactdeck/contactdeck/internal/metrics"
	"github.com/contactdeck/contactdeck/internal/repository"
	"github.com/robfig/cron/v3"
)

// Collector refreshes the users/contacts total gauges on a fixed schedule.
type Collector struct {
	users    repository.UserRepository
	contacts repository.ContactRepository
	logger   *slog.Logger
	cron     *cron.Cron
}

func NewCollector(users repository.UserRepository, contacts repository.ContactRepository, logger *slog.Logger) *Collector {
	return &Collector{
		users:    users,
		contacts: contacts,
		logger:   logger.With("component", "stats"),
		cron:     cron.New(),
	}
}

// Start refreshes once immediately, then every minute until Stop.
func (c *Collector) Start() error {
	c.refresh()
	if _, err := c.cron.AddFunc("@every 1m", c.refresh); err != nil {
		return err
	}
	c.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish.
func (c *Collector) Stop() {
	<-c.cron.Stop().Done()
}

func (c *Collector) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if n, err := c.users.Count(ctx); err != nil {
		c.logger.Warn("count users", "error", err)
	} else {
		metrics.UsersTotal.Set(float64(n))
	}

	if n, err := c.contacts.Count(ctx); err != nil {
		c.logger.Warn("count contacts", "error", err)
	} else {
		metrics.ContactsTotal.Set(float64(n))
	}
}

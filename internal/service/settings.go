package service

import (
	"log/slog"
	"time"

	"github.com/ekyte/intake/internal/artifact"
	"github.com/ekyte/intake/internal/db"
	"github.com/ekyte/intake/internal/flow"
	"github.com/ekyte/intake/internal/repository"
	"github.com/ekyte/intake/internal/scheduler"
	"github.com/ekyte/intake/internal/storage"
)

// Settings are the engine's tunables.
type Settings struct {
	// ReservedEmailDomain marks emails that may collide with another
	// company's ticket alias.
	ReservedEmailDomain  string
	DefaultPhaseEffort   int
	PlacementHour        int
	Location             *time.Location
	DefaultTicketMessage string
}

// DefaultReservedEmailDomain is the domain ticket aliases are issued on.
const DefaultReservedEmailDomain = "ekyte.com"

// DefaultSettings mirrors the configuration defaults.
func DefaultSettings() Settings {
	return Settings{
		ReservedEmailDomain:  DefaultReservedEmailDomain,
		DefaultPhaseEffort:   flow.FallbackPhaseEffort,
		PlacementHour:        artifact.DefaultPlacementHour,
		Location:             time.Local,
		DefaultTicketMessage: "<p>Opened through the integration.</p>",
	}
}

// Collaborators are the external dependencies shared by every use case.
type Collaborators struct {
	UoW       db.UnitOfWork
	Store     storage.Store
	Notifier  Notifier
	Organizer flow.Organizer
	// Locks serializes scheduling on one project. Services sharing a
	// project must share the same ContextLocks.
	Locks *scheduler.ContextLocks
	// Identities builds the provisioner used inside a transaction.
	Identities func(users repository.UserRepo) IdentityProvisioner
	Logger     *slog.Logger
	Settings   Settings
}

// withDefaults fills missing collaborators. Zero-value Settings are replaced
// by DefaultSettings; otherwise only fields with no valid zero value are
// filled, so a configured placement hour of 0 is kept.
func (c Collaborators) withDefaults() Collaborators {
	if c.Notifier == nil {
		c.Notifier = NoopNotifier{}
	}
	if c.Organizer == nil {
		c.Organizer = flow.SequentialOrganizer{}
	}
	if c.Locks == nil {
		c.Locks = &scheduler.ContextLocks{}
	}
	if c.Identities == nil {
		c.Identities = NewGuestProvisioner
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Settings == (Settings{}) {
		c.Settings = DefaultSettings()
	}
	if c.Settings.Location == nil {
		c.Settings.Location = time.Local
	}
	if c.Settings.ReservedEmailDomain == "" {
		c.Settings.ReservedEmailDomain = DefaultReservedEmailDomain
	}
	if c.Settings.DefaultPhaseEffort <= 0 {
		c.Settings.DefaultPhaseEffort = flow.FallbackPhaseEffort
	}
	return c
}

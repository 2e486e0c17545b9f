// Package runtime builds the per-command context: configuration, the open
// database, repositories and the output formatter.
package runtime

import (
	"os"
	"time"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/config"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/dateutil"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/logging"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/output"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/recur"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/reminder"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/storage"
)

// EnvDatabase overrides the database path. ":memory:" opens an in-memory
// store.
const EnvDatabase = config.EnvPrefix + "DATABASE"

// Context holds the application runtime context.
type Context struct {
	Config    *config.Config
	DB        *storage.DB
	Formatter *output.Formatter
	Location  *time.Location

	Events   *storage.EventRepo
	Webhooks *storage.WebhookRepo
	Notified *storage.NotifiedRepo

	Debug bool

	// now is replaced in tests.
	now func() time.Time
}

// Options configures the runtime context.
type Options struct {
	ConfigPath string
	DBPath     string
	InMemory   bool
	Format     output.Format
	ColorMode  output.ColorMode
	Debug      bool
	// Config skips loading when set.
	Config *config.Config
}

// DefaultOptions returns default runtime options.
func DefaultOptions() Options {
	return Options{
		Format:    output.FormatCLI,
		ColorMode: output.ColorAuto,
	}
}

// New loads configuration, opens the database and wires the repositories.
func New(opts Options) (*Context, error) {
	if opts.Debug {
		logging.InitDebug()
	}

	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.Load(opts.ConfigPath); err != nil {
			return nil, err
		}
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	dbOpts := resolveDB(opts, cfg)
	logging.DebugLog("opening database", logging.KeyPath, dbOpts.Path, "in_memory", dbOpts.InMemory)
	db, err := storage.Open(dbOpts)
	if err != nil {
		return nil, err
	}

	formatter := output.NewFormatter()
	if opts.Format != "" {
		formatter.Format = opts.Format
	}
	if opts.ColorMode != "" {
		formatter.ColorMode = opts.ColorMode
	}

	return &Context{
		Config:    cfg,
		DB:        db,
		Formatter: formatter,
		Location:  loc,
		Events:    storage.NewEventRepo(db),
		Webhooks:  storage.NewWebhookRepo(db),
		Notified:  storage.NewNotifiedRepo(db, storage.DefaultNotifiedTTL),
		Debug:     opts.Debug,
		now:       time.Now,
	}, nil
}

// resolveDB picks the database in order: explicit options, $EVENTCAL_DATABASE,
// the config file, then the XDG default.
func resolveDB(opts Options, cfg *config.Config) storage.Options {
	switch {
	case opts.InMemory:
		return storage.Options{InMemory: true}
	case opts.DBPath != "":
		return storage.Options{Path: opts.DBPath}
	}
	if env := os.Getenv(EnvDatabase); env != "" {
		if env == ":memory:" {
			return storage.Options{InMemory: true}
		}
		return storage.Options{Path: env}
	}
	if cfg.DBPath != "" {
		return storage.Options{Path: cfg.DBPath}
	}
	return storage.Options{Path: storage.DefaultPath()}
}

// Close closes the runtime context.
func (c *Context) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// Now returns the current time in the configured zone.
func (c *Context) Now() time.Time {
	return c.now().In(c.Location)
}

// SetClock replaces the time source.
func (c *Context) SetClock(now func() time.Time) {
	c.now = now
}

// ListEvents returns the stored events. With expand set, repeating events
// are replaced by their occurrences between start and end.
func (c *Context) ListEvents(expand bool, start, end time.Time) ([]model.Event, error) {
	events, err := c.Events.List()
	if err != nil {
		return nil, err
	}
	if !expand {
		return events, nil
	}
	return recur.ExpandAll(events, start, end), nil
}

// ListEventsAround lists events, expanding repeats over the month holding
// anchor when the config asks for it or force is set.
func (c *Context) ListEventsAround(anchor time.Time, force bool) ([]model.Event, error) {
	return c.ListEvents(force || c.Config.ExpandRecurring,
		dateutil.StartOfMonth(anchor).AddDate(0, 0, -dateutil.DaysPerWeek),
		dateutil.EndOfMonth(anchor).AddDate(0, 0, dateutil.DaysPerWeek))
}

// NotifiedSet returns the ids the daemon has already fired. Read errors
// yield an empty set since the markers are decorative.
func (c *Context) NotifiedSet() reminder.NotifiedSet {
	ids, err := c.Notified.IDs()
	if err != nil {
		logging.DebugLog("cannot read notified ids", logging.KeyError, err)
		return reminder.NewNotifiedSet()
	}
	return reminder.NewNotifiedSet(ids...)
}

// CLIFormatter returns a CLI formatter.
func (c *Context) CLIFormatter() *output.CLIFormatter {
	return output.NewCLIFormatter(c.Formatter)
}

// JSONFormatter returns a JSON formatter.
func (c *Context) JSONFormatter() *output.JSONFormatter {
	return output.NewJSONFormatter(c.Formatter)
}

// PlainFormatter returns a plain formatter.
func (c *Context) PlainFormatter() *output.PlainFormatter {
	return output.NewPlainFormatter(c.Formatter)
}

func (c *Context) IsJSON() bool {
	return c.Formatter.Format == output.FormatJSON
}

func (c *Context) IsPlain() bool {
	return c.Formatter.Format == output.FormatPlain
}

func (c *Context) IsCLI() bool {
	return c.Formatter.Format == output.FormatCLI
}

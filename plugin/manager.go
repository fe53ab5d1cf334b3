package plugin

import (
	"context"
	"fmt"
	"iter"
	"sort"
	"sync"

	"emperror.dev/errors"
	"github.com/starshine-sys/griffin/command"
	"github.com/starshine-sys/griffin/common/log"
	"github.com/starshine-sys/griffin/config"
	"github.com/starshine-sys/griffin/db/stats"
)

type entry struct {
	desc   Descriptor
	module Module
}

// Options configures a Manager.
type Options struct {
	// Root is the cogs directory.
	Root    string
	Catalog Catalog
	Surface *command.Surface
	Syncer  Syncer
	// Counts are updated after every successful sync. Optional.
	Counts *config.Counts
	// Stats counts lifecycle operations. Optional.
	Stats *stats.Client
}

// Manager owns the active cog registry.
//
// Lifecycle operations are serialized: each one, including the command sync at its end,
// completes before the next one starts.
type Manager struct {
	root    string
	catalog Catalog
	surface *command.Surface
	syncer  Syncer
	counts  *config.Counts
	stats   *stats.Client

	// opMu is held for the whole of a lifecycle operation
	opMu sync.Mutex

	active   map[string]*entry
	activeMu sync.RWMutex
}

// New creates a new Manager. No cogs are loaded.
func New(opts Options) *Manager {
	if opts.Catalog == nil {
		opts.Catalog = Catalog{}
	}
	if opts.Surface == nil {
		opts.Surface = command.NewSurface(true)
	}
	if opts.Counts == nil {
		opts.Counts = &config.Counts{}
	}

	return &Manager{
		root:    opts.Root,
		catalog: opts.Catalog,
		surface: opts.Surface,
		syncer:  opts.Syncer,
		counts:  opts.Counts,
		stats:   opts.Stats,
		active:  make(map[string]*entry),
	}
}

// Root returns the cogs directory.
func (m *Manager) Root() string { return m.root }

// Catalog returns the compiled cogs.
func (m *Manager) Catalog() Catalog { return m.catalog }

// Surface returns the command surface cogs register their commands in.
func (m *Manager) Surface() *command.Surface { return m.surface }

// Discover returns the cogs in the cogs directory. See Discover.
func (m *Manager) Discover() iter.Seq[Descriptor] {
	return Discover(m.root)
}

// Resolve returns the descriptor for name. It returns a *NotFoundError if the cog isn't on disk,
// or if there's no compiled implementation for it.
func (m *Manager) Resolve(name string) (Descriptor, error) {
	d, err := Resolve(m.root, name)
	if err != nil {
		return d, err
	}

	if !m.catalog.Has(name) {
		return d, &NotFoundError{Name: name, Reason: "no compiled implementation"}
	}
	return d, nil
}

// IsActive returns true if the cog is loaded.
func (m *Manager) IsActive(name string) bool {
	m.activeMu.RLock()
	defer m.activeMu.RUnlock()

	_, ok := m.active[name]
	return ok
}

// Active returns the names of all loaded cogs, sorted.
func (m *Manager) Active() []string {
	m.activeMu.RLock()
	names := make([]string, 0, len(m.active))
	for name := range m.active {
		names = append(names, name)
	}
	m.activeMu.RUnlock()

	sort.Strings(names)
	return names
}

// Inactive returns the names of all cogs on disk that aren't loaded, sorted.
func (m *Manager) Inactive() (names []string) {
	for d := range m.Discover() {
		if !m.IsActive(d.Name) {
			names = append(names, d.Name)
		}
	}
	sort.Strings(names)
	return names
}

// Module returns a loaded cog's module.
func (m *Manager) Module(name string) (Module, bool) {
	m.activeMu.RLock()
	defer m.activeMu.RUnlock()

	e, ok := m.active[name]
	if !ok {
		return nil, false
	}
	return e.module, true
}

// Each calls fn for every loaded cog, in name order.
// The registry is not locked while fn runs, so fn may call lifecycle operations.
func (m *Manager) Each(fn func(name string, mod Module)) {
	m.activeMu.RLock()
	entries := make([]*entry, 0, len(m.active))
	for _, e := range m.active {
		entries = append(entries, e)
	}
	m.activeMu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].desc.Name < entries[j].desc.Name
	})

	for _, e := range entries {
		fn(e.desc.Name, e.module)
	}
}

// Load loads the named cog and syncs commands.
//
// It returns an *AlreadyActiveError if the cog is loaded, a *NotFoundError if it can't be resolved,
// and an *InitError if creating or setting up the cog fails; in these cases nothing changes.
// If only the sync fails, the cog stays loaded and a *ResyncError is returned.
func (m *Manager) Load(ctx context.Context, name string) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	err := m.load(ctx, name)
	if err != nil {
		return err
	}
	m.stats.IncLifecycle("load")

	return m.resync(ctx)
}

// Unload unloads the named cog and syncs commands.
// It returns a *NotFoundError if the cog isn't loaded.
func (m *Manager) Unload(ctx context.Context, name string) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	err := m.unload(ctx, name)
	if err != nil {
		return err
	}
	m.stats.IncLifecycle("unload")

	return m.resync(ctx)
}

// Reload unloads and loads the named cog, then syncs commands.
//
// There is no rollback: if loading the new instance fails, the cog stays unloaded,
// and commands are not synced.
func (m *Manager) Reload(ctx context.Context, name string) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	err := m.unload(ctx, name)
	if err != nil {
		return err
	}

	err = m.load(ctx, name)
	if err != nil {
		log.Errorf("Reloading cogs.%v failed, it is now unloaded: %v", name, err)
		return err
	}
	m.stats.IncLifecycle("reload")

	return m.resync(ctx)
}

// ReloadAll reloads every loaded cog in name order, syncing after each one.
// A failing cog does not stop the others from being reloaded.
func (m *Manager) ReloadAll(ctx context.Context) (r Report) {
	for _, name := range m.Active() {
		err := m.Reload(ctx, name)

		var re *ResyncError
		switch {
		case err == nil:
			r.Succeeded = append(r.Succeeded, name)
		case errors.As(err, &re):
			r.Succeeded = append(r.Succeeded, name)
			r.Resync = err
		default:
			r.Failed = append(r.Failed, Failure{Name: name, Err: err})
		}
	}
	return r
}

// LoadAll loads every cog on disk that isn't loaded or disabled, then syncs commands once.
// A failing cog does not stop the others from being loaded.
func (m *Manager) LoadAll(ctx context.Context) (r Report) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	for d := range m.Discover() {
		if m.IsActive(d.Name) {
			continue
		}

		if man, err := d.Manifest(); err == nil && man.Disabled {
			log.Infof("Skipping disabled cog cogs.%v", d.Name)
			continue
		}

		err := m.load(ctx, d.Name)
		if err != nil {
			log.Errorf("Loading error cogs.%v: %v", d.Name, err)
			r.Failed = append(r.Failed, Failure{Name: d.Name, Err: err})
			continue
		}
		m.stats.IncLifecycle("load")
		r.Succeeded = append(r.Succeeded, d.Name)
	}

	r.Resync = m.resync(ctx)
	return r
}

// Resync pushes all registered slash commands to Discord, and updates the cog and command counts.
func (m *Manager) Resync(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	return m.resync(ctx)
}

func (m *Manager) resync(ctx context.Context) error {
	if m.syncer == nil {
		m.counts.Set(len(m.Active()), 0)
		return nil
	}

	n, err := m.syncer.Sync(ctx, m.surface.CreateData())
	if err != nil {
		log.Errorf("Command synchronization error: %v", err)
		return &ResyncError{Err: err}
	}

	cogs := len(m.Active())
	m.counts.Set(cogs, n)
	m.stats.IncLifecycle("resync")

	log.Infof("Synced %v cogs.", cogs)
	log.Infof("Synchronized %v application commands.", n)
	return nil
}

// load creates and registers a cog. On error, the registry and surface are unchanged.
func (m *Manager) load(ctx context.Context, name string) error {
	if m.IsActive(name) {
		return &AlreadyActiveError{Name: name}
	}

	d, err := m.Resolve(name)
	if err != nil {
		return err
	}

	mod, err := m.initialize(ctx, d)
	if err != nil {
		return &InitError{Name: name, Err: err}
	}

	m.activeMu.Lock()
	m.active[name] = &entry{desc: d, module: mod}
	m.activeMu.Unlock()

	log.Infof("Module loaded: cogs.%v", name)
	return nil
}

// initialize builds the module and registers its commands.
// Panics in the cog's code are returned as errors, and a module that was set up is torn down again.
func (m *Manager) initialize(ctx context.Context, d Descriptor) (mod Module, err error) {
	setUp := false
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic: %v", r)
			m.surface.Remove(d.Name)
			if setUp {
				m.teardown(ctx, d.Name, mod)
			}
			mod = nil
		}
	}()

	man, err := d.Manifest()
	if err != nil {
		return nil, err
	}

	mod, err = m.catalog[d.Name](d, man)
	if err != nil {
		return nil, errors.Wrap(err, "creating module")
	}
	if mod == nil {
		return nil, errors.New("factory returned a nil module")
	}

	err = mod.Setup(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "setting up module")
	}
	setUp = true

	err = m.surface.Add(d.Name, mod.Commands()...)
	if err != nil {
		m.teardown(ctx, d.Name, mod)
		return nil, errors.Wrap(err, "registering commands")
	}

	return mod, nil
}

// unload removes a cog from the registry and surface, then tears it down.
func (m *Manager) unload(ctx context.Context, name string) error {
	m.activeMu.Lock()
	e, ok := m.active[name]
	if ok {
		delete(m.active, name)
	}
	m.activeMu.Unlock()

	if !ok {
		return &NotFoundError{Name: name, Reason: "not loaded"}
	}

	names := m.surface.Remove(name)
	log.Debugf("Removed %v command(s) of cogs.%v", len(names), name)

	m.teardown(ctx, name, e.module)

	log.Infof("Module unloaded: cogs.%v", name)
	return nil
}

func (m *Manager) teardown(ctx context.Context, name string, mod Module) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Panic tearing down cogs.%v: %v", name, r)
		}
	}()

	err := mod.Teardown(ctx)
	if err != nil {
		log.Errorf("Error tearing down cogs.%v: %v", name, err)
	}
}

// String implements fmt.Stringer, for logging.
func (m *Manager) String() string {
	return fmt.Sprintf("plugin.Manager(%v, %d active)", m.root, len(m.Active()))
}

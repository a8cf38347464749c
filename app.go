package ajx

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
)

// URIDetector resolves the request URI used to populate core.request.uri
// when the option is unset.
type URIDetector interface {
	Detect(r *http.Request) string
}

// URIDetectorFunc adapts a function to the URIDetector interface.
type URIDetectorFunc func(r *http.Request) string

func (f URIDetectorFunc) Detect(r *http.Request) string { return f(r) }

// App is the explicit context object owning one instance each of the option
// store, plugin registry, code generator, export cache, and event bus. One
// App per running server; there is no package-level state and no teardown.
type App struct {
	opts OptionStore
	reg  *Registry
	gen  *Generator
	exp  *Exporter
	bus  *Bus
	disp *Dispatcher
	det  URIDetector
	log  *slog.Logger

	mu      sync.Mutex
	pkgPrio int
}

// Option configures an App.
type Option func(*appConfig)

type appConfig struct {
	opts OptionStore
	tpl  TemplateRenderer
	min  Minifier
	ver  VersionProvider
	det  URIDetector
	log  *slog.Logger
}

// WithOptions supplies the option store. Defaults to an empty Options.
func WithOptions(opts OptionStore) Option {
	return func(c *appConfig) { c.opts = opts }
}

// WithTemplates replaces the built-in template renderer.
func WithTemplates(tpl TemplateRenderer) Option {
	return func(c *appConfig) { c.tpl = tpl }
}

// WithMinifier supplies the external minifier used on exported bundles.
// Without one, js.app.minify has no effect.
func WithMinifier(min Minifier) Option {
	return func(c *appConfig) { c.min = min }
}

// WithVersionProvider replaces the default version source (the
// core.version option) used in the export cache hash and bootstrap config.
func WithVersionProvider(ver VersionProvider) Option {
	return func(c *appConfig) { c.ver = ver }
}

// WithURIDetector replaces the default request-URI detection.
func WithURIDetector(det URIDetector) Option {
	return func(c *appConfig) { c.det = det }
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(c *appConfig) { c.log = log }
}

// New creates an App with the given options.
func New(options ...Option) *App {
	cfg := appConfig{}
	for _, o := range options {
		o(&cfg)
	}
	if cfg.opts == nil {
		cfg.opts = NewOptions()
	}
	if cfg.det == nil {
		cfg.det = URIDetectorFunc(detectURI)
	}
	if cfg.log == nil {
		cfg.log = slog.Default()
	}

	bus := NewBus()
	reg := NewRegistry(bus)
	app := &App{
		opts:    cfg.opts,
		reg:     reg,
		gen:     NewGenerator(cfg.opts, cfg.tpl, cfg.ver, cfg.log),
		exp:     NewExporter(cfg.opts, cfg.min, cfg.log),
		bus:     bus,
		disp:    NewDispatcher(reg, cfg.log),
		det:     cfg.det,
		log:     cfg.log,
		pkgPrio: packagePriorityBase,
	}
	return app
}

// Packages slot after all default-priority plugins, in registration order.
const packagePriorityBase = 5000

// Options returns the App's option store.
func (a *App) Options() OptionStore { return a.opts }

// Registry returns the plugin registry, for direct named lookups.
func (a *App) Registry() *Registry { return a.reg }

// Bus returns the event bus.
func (a *App) Bus() *Bus { return a.bus }

// Register adds a plugin at the given priority (DefaultPriority when
// omitted). Response contributors are additionally registered with the
// code generator at the same priority.
func (a *App) Register(p Plugin, priority ...int) error {
	if err := a.reg.Register(p, priority...); err != nil {
		return err
	}
	if c, ok := p.(ResponseContributor); ok {
		a.gen.Register(c, priority...)
	}
	return nil
}

// RegisterContributor adds a code-generation contributor that takes no part
// in request dispatch or named plugin lookup.
func (a *App) RegisterContributor(c ResponseContributor, priority ...int) {
	a.gen.Register(c, priority...)
}

// RegisterPackage adds a lazily-constructed package contributor, ordered by
// registration sequence.
func (a *App) RegisterPackage(p *Package) {
	a.mu.Lock()
	prio := a.pkgPrio
	a.pkgPrio++
	a.mu.Unlock()
	a.gen.Register(p, prio)
}

// Publish delivers an event to subscribed listener plugins.
func (a *App) Publish(ctx context.Context, e Event) error {
	return a.bus.Publish(ctx, e)
}

// CanDispatch reports whether any registered request handler recognizes r.
// False means an initial page load.
func (a *App) CanDispatch(r *http.Request) bool {
	return a.disp.CanDispatch(r)
}

// Dispatch routes r to the matching request handler. See Dispatcher.Dispatch.
func (a *App) Dispatch(w http.ResponseWriter, r *http.Request) error {
	return a.disp.Dispatch(w, r)
}

// JS returns the JS include markup for the page head.
func (a *App) JS() string { return a.gen.JS() }

// CSS returns the accumulated contributor CSS.
func (a *App) CSS() string { return a.gen.CSS() }

// Script assembles the full bootstrap markup for an initial page load,
// resolving core.request.uri from r when the option is unset. r may be nil
// when the URI is preconfigured.
func (a *App) Script(r *http.Request, includeJS, includeCSS bool) (string, error) {
	if !a.opts.Has("core.request.uri") && r != nil {
		a.opts.Set("core.request.uri", a.det.Detect(r))
	}
	return a.gen.Script(a.exp, includeJS, includeCSS)
}

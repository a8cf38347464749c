package ajx

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Version is the library version. Folded into the export cache hash, so
// bumping it invalidates every previously exported bundle URL.
const Version = "0.1.0"

// VersionProvider supplies the version string folded into the export cache
// hash and the client bootstrap configuration. The default reads the
// core.version option, falling back to the library constant.
type VersionProvider interface {
	Version() string
}

// VersionProviderFunc adapts a function to the VersionProvider interface.
type VersionProviderFunc func() string

func (f VersionProviderFunc) Version() string { return f() }

type optionVersion struct{ opts OptionStore }

func (v optionVersion) Version() string {
	return optString(v.opts, "core.version", Version)
}

// Generator collects CSS/JS/script/ready-script fragments from every
// registered contributor and assembles the bootstrap payload.
//
// It is a two-state machine: Pending until the single generation pass runs,
// Generated forever after. The pass visits contributors in ascending
// priority order and pulls each fragment accessor exactly once; later calls
// to generate are no-ops over the already-accumulated state. This is a
// correctness requirement, not an optimization - contributors must not be
// asked twice.
type Generator struct {
	mu           sync.Mutex
	generated    bool
	opts         OptionStore
	tpl          TemplateRenderer
	ver          VersionProvider
	log          *slog.Logger
	contributors *PriorityList[ResponseContributor]

	css    string
	js     string
	script string // persistent script, incl. the wrapped deferred ready script
	inline string // wrapped inline-only ready script, embedded in the page body
	hash   string // memoized; computed lazily, not during generation
}

// NewGenerator creates a generator reading configuration from opts and
// rendering wrappers through tpl. A nil ver falls back to the core.version
// option.
func NewGenerator(opts OptionStore, tpl TemplateRenderer, ver VersionProvider, log *slog.Logger) *Generator {
	if tpl == nil {
		tpl = NewTemplates()
	}
	if ver == nil {
		ver = optionVersion{opts}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Generator{
		opts:         opts,
		tpl:          tpl,
		ver:          ver,
		log:          log,
		contributors: NewPriorityList[ResponseContributor](),
	}
}

// Register adds a contributor at the given priority (DefaultPriority when
// omitted) and returns the effective priority. Contributors registered
// after generation has run are never visited; register everything before
// the first render.
func (g *Generator) Register(c ResponseContributor, priority ...int) int {
	prio := DefaultPriority
	if len(priority) > 0 {
		prio = priority[0]
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.contributors.Insert(c, prio)
}

// generate runs the single Pending->Generated pass. Callers hold g.mu.
func (g *Generator) generate() {
	if g.generated {
		return
	}
	g.generated = true

	var css, js, script, ready, inline strings.Builder
	for c := range g.contributors.All() {
		css.WriteString(trimCode(c.CSS()))
		js.WriteString(trimCode(c.JS()))
		script.WriteString(trimCode(c.Script()))
		rs := trimCode(c.ReadyScript())
		if rs == "" {
			continue
		}
		if c.ReadyInline() {
			if c.ReadyEnabled() {
				inline.WriteString(rs)
			}
			continue
		}
		ready.WriteString(rs)
	}

	g.css = css.String()
	g.js = js.String()
	g.script = script.String()

	if ready.Len() > 0 {
		g.script += g.render(TemplateReady, map[string]any{"script": ready.String()})
	}
	if inline.Len() > 0 {
		g.inline = g.render(TemplateReady, map[string]any{"script": inline.String()})
	}

	g.log.Debug("code generation complete",
		"contributors", g.contributors.Len(),
		"css", len(g.css), "js", len(g.js), "script", len(g.script))
}

// CSS triggers generation if needed and returns the accumulated CSS, one
// trimmed fragment per contributor in priority order.
func (g *Generator) CSS() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.generate()
	return g.css
}

// JS triggers generation if needed and returns the JS include markup: the
// library file list followed by the contributors' inlined JS fragments.
func (g *Generator) JS() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.generate()
	return g.jsMarkup()
}

func (g *Generator) jsMarkup() string {
	out := g.render(TemplateIncludes, map[string]any{"urls": g.libraryURLs()})
	if g.js != "" {
		out += g.render(TemplateInline, map[string]any{"script": g.js})
	}
	return out
}

func (g *Generator) cssMarkup() string {
	if g.css == "" {
		return ""
	}
	return g.render(TemplateStyle, map[string]any{"css": g.css})
}

// libraryURLs lists the client library files under js.lib.uri: the core
// file, the debug build when debugging is on, and a language file when
// core.language is set.
func (g *Generator) libraryURLs() []string {
	base := strings.TrimRight(optString(g.opts, "js.lib.uri", ""), "/")
	urls := []string{base + "/ajx.core.js"}
	if optBool(g.opts, "core.debug.on", false) {
		urls = append(urls, base+"/ajx.debug.js")
	}
	if lang := optString(g.opts, "core.language", ""); lang != "" {
		urls = append(urls, base+"/lang/ajx."+lang+".js")
	}
	return urls
}

// Hash returns the export cache key: md5 of the library version followed by
// every contributor's hash fragment in priority order. Deterministic for an
// identical contributor set and configuration, and computed at most once.
func (g *Generator) Hash() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.hash != "" {
		return g.hash
	}
	h := md5.New()
	io.WriteString(h, g.ver.Version())
	for c := range g.contributors.All() {
		io.WriteString(h, c.Hash())
	}
	g.hash = hex.EncodeToString(h.Sum(nil))
	return g.hash
}

// Bundle triggers generation if needed and returns the persistent script -
// the content written to an exported file.
func (g *Generator) Bundle() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.generate()
	return g.script
}

// Script assembles the full initial-page-load markup. includeJS and
// includeCSS prepend the corresponding include markup. When exp reports the
// export capability the persistent script is resolved to a cached file and
// included by URL, with any inline-only script wrapped separately; export
// failures and missing capability both fall back to inlining everything, so
// the page renders even when the file cache is broken.
//
// The client bootstrap configuration is always inlined: it carries
// per-request values (the request URI among them) that must not be baked
// into the shared exported file.
func (g *Generator) Script(exp *Exporter, includeJS, includeCSS bool) (string, error) {
	g.mu.Lock()
	g.generate()
	var b strings.Builder
	if includeCSS {
		b.WriteString(g.cssMarkup())
	}
	if includeJS {
		b.WriteString(g.jsMarkup())
	}
	config := g.configScript()
	script := g.script
	inline := g.inline
	g.mu.Unlock()

	if exp != nil && exp.CanExport() {
		url, err := exp.ResolveURL(g)
		if err == nil {
			b.WriteString(g.render(TemplateInline, map[string]any{"script": config}))
			b.WriteString(g.render(TemplateInclude, map[string]any{"url": url}))
			if inline != "" {
				b.WriteString(g.render(TemplateInline, map[string]any{"script": inline}))
			}
			return b.String(), nil
		}
		g.log.Warn("script export failed, falling back to inline", "error", err)
	}

	b.WriteString(g.render(TemplateInline, map[string]any{"script": config + script + inline}))
	return b.String(), nil
}

// configScript renders the client bootstrap configuration from the
// recognized option keys. Callers hold g.mu.
func (g *Generator) configScript() string {
	options := map[string]any{
		"version":       g.ver.Version(),
		"defaultMode":   optString(g.opts, "core.request.mode", "asynchronous"),
		"defaultMethod": optString(g.opts, "core.request.method", "POST"),
	}
	if g.opts.Has("core.request.uri") {
		options["requestURI"] = optString(g.opts, "core.request.uri", "")
	}
	if g.opts.Has("core.request.csrf_meta") {
		options["CSRFMeta"] = optString(g.opts, "core.request.csrf_meta", "")
	}
	if g.opts.Has("core.language") {
		options["language"] = optString(g.opts, "core.language", "")
	}
	if optBool(g.opts, "core.debug.on", false) {
		options["debug"] = true
		options["verboseDebug"] = optBool(g.opts, "core.debug.verbose", false)
		if g.opts.Has("core.debug.output_id") {
			options["debugOutputID"] = optString(g.opts, "core.debug.output_id", "")
		}
	}
	if g.opts.Has("js.lib.queue_size") {
		options["requestQueueSize"] = optInt(g.opts, "js.lib.queue_size", 0)
	}
	if g.opts.Has("js.lib.show_status") {
		options["statusMessages"] = optBool(g.opts, "js.lib.show_status", false)
	}
	if g.opts.Has("js.lib.show_cursor") {
		options["waitCursor"] = optBool(g.opts, "js.lib.show_cursor", true)
	}

	out := g.render(TemplateConfig, map[string]any{"options": options})
	if extra := optString(g.opts, "js.app.options", ""); extra != "" {
		out += trimCode(extra)
	}
	return out
}

// render is a must-render helper for the built-in snippet templates; a
// failing custom renderer degrades to an empty fragment rather than losing
// the page.
func (g *Generator) render(name string, vars map[string]any) string {
	out, err := g.tpl.Render(name, vars)
	if err != nil {
		g.log.Warn("template render failed", "template", name, "error", err)
		return ""
	}
	return out
}

// trimCode strips trailing blank space from a fragment and terminates it
// with a single newline, so consecutive contributors' fragments never
// interleave mid-line.
func trimCode(code string) string {
	code = strings.TrimRight(code, " \t\r\n")
	if code == "" {
		return ""
	}
	return code + "\n"
}

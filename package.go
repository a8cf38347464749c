package ajx

import "sync"

// Package is a registered contributor constructed lazily on first use and
// shared thereafter. Packages order by registration sequence rather than by
// caller-chosen priority: the App assigns them increasing priorities in a
// band above the plugin defaults, so they compose through the same
// generation pass as every other contributor.
type Package struct {
	name    string
	factory func() ResponseContributor
	once    sync.Once
	inst    ResponseContributor
}

// NewPackage wraps a contributor factory. The factory runs at most once,
// the first time any fragment accessor is pulled.
func NewPackage(name string, factory func() ResponseContributor) *Package {
	return &Package{name: name, factory: factory}
}

// Name returns the package name.
func (p *Package) Name() string { return p.name }

func (p *Package) instance() ResponseContributor {
	p.once.Do(func() {
		p.inst = p.factory()
	})
	return p.inst
}

func (p *Package) CSS() string         { return p.instance().CSS() }
func (p *Package) JS() string          { return p.instance().JS() }
func (p *Package) Script() string      { return p.instance().Script() }
func (p *Package) ReadyScript() string { return p.instance().ReadyScript() }
func (p *Package) ReadyInline() bool   { return p.instance().ReadyInline() }
func (p *Package) ReadyEnabled() bool  { return p.instance().ReadyEnabled() }
func (p *Package) Hash() string        { return p.instance().Hash() }

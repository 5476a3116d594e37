package api

import (
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"repairshop.GO/config"
	"repairshop.GO/core/cache"
	"repairshop.GO/core/registry"
	"repairshop.GO/service/notify"
	"repairshop.GO/service/search"
)

var mu sync.Mutex

func init() {
	// Money goes over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Deps is what every route module gets to build its services from.
type Deps struct {
	DB       *gorm.DB
	Log      logrus.FieldLogger
	Cache    cache.Store
	Search   *search.Service
	Notifier notify.Notifier
	App      *config.Config
	// Auth guards the /api group. Root routes that must not be public
	// (graphql) attach it themselves; nil means no auth.
	Auth echo.MiddlewareFunc
}

// Protect returns d.Auth as a middleware list for root-level routes.
func (d *Deps) Protect() []echo.MiddlewareFunc {
	if d.Auth == nil {
		return nil
	}
	return []echo.MiddlewareFunc{d.Auth}
}

// NewDeps wires the post-commit notifier so every mutation refreshes the
// search index and drops cached reports.
func NewDeps(db *gorm.DB, log logrus.FieldLogger, store cache.Store, s *search.Service, app *config.Config) *Deps {
	if app == nil {
		app = config.LoadAppConfig()
	}
	n := notify.Fanout{notify.CacheInvalidator{Store: store, Log: log}}
	if s != nil {
		n = append(n, s)
	}
	return &Deps{DB: db, Log: log, Cache: store, Search: s, Notifier: n, App: app}
}

// --- /api group modules (authenticated, DB-dependent) ---

// ModuleFunc registers routes on the /api group.
type ModuleFunc func(g *echo.Group, d *Deps)

func getModules() []ModuleFunc {
	if v, ok := registry.GlobalRegistry.GetGlobal(registry.KeyRegistryAPI); ok && v != nil {
		return v.([]ModuleFunc)
	}
	return nil
}

// RegisterModule registers an API module. Call from init() in API packages.
func RegisterModule(fn ModuleFunc) {
	mu.Lock()
	defer mu.Unlock()
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryAPI) {
		panic("api/registry: API modules locked (register only during init)")
	}
	list := getModules()
	list = append(list, fn)
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryAPI, list)
}

// ApplyModules calls all registered /api modules. Locks the registry.
func ApplyModules(g *echo.Group, d *Deps) {
	for _, fn := range getModules() {
		fn(g, d)
	}
	registry.GlobalRegistry.Lock(registry.KeyRegistryAPI)
}

// --- Root-level routes (public health, receipts, graphql) ---

// RouteFunc registers routes on the root Echo instance.
type RouteFunc func(e *echo.Echo, d *Deps)

func getRoutes() []RouteFunc {
	if v, ok := registry.GlobalRegistry.GetGlobal(registry.KeyRegistryRoutes); ok && v != nil {
		return v.([]RouteFunc)
	}
	return nil
}

// RegisterRoute registers a root-level route module. Call from init().
func RegisterRoute(fn RouteFunc) {
	mu.Lock()
	defer mu.Unlock()
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryRoutes) {
		panic("api/registry: routes locked (register only during init)")
	}
	list := getRoutes()
	list = append(list, fn)
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryRoutes, list)
}

// RegisterGET is shorthand for registering a simple GET route on root.
func RegisterGET(path string, handler echo.HandlerFunc) {
	RegisterRoute(func(e *echo.Echo, _ *Deps) {
		e.GET(path, handler)
	})
}

// RegisterPOST is shorthand for registering a simple POST route on root.
func RegisterPOST(path string, handler echo.HandlerFunc) {
	RegisterRoute(func(e *echo.Echo, _ *Deps) {
		e.POST(path, handler)
	})
}

// ApplyRoutes calls all registered root-level routes. Locks the registry.
func ApplyRoutes(e *echo.Echo, d *Deps) {
	for _, fn := range getRoutes() {
		fn(e, d)
	}
	registry.GlobalRegistry.Lock(registry.KeyRegistryRoutes)
}

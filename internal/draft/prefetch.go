package draft

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/verdictlabs/plead/internal/api"
	"github.com/verdictlabs/plead/internal/session"
)

// defaultCaseType is used when the template catalog could not be loaded.
const defaultCaseType = "civil"

// CatalogSource is the slice of the backend client the prefetcher depends
// on.
type CatalogSource interface {
	Health(ctx context.Context) (*api.HealthStatus, error)
	ListTemplates(ctx context.Context) (*api.TemplateList, error)
}

// Catalog holds the case-type templates loaded at session start.
// It stays usable (with a default case type) when loading failed.
type Catalog struct {
	mu        sync.Mutex
	templates []api.Template
}

// Templates returns the loaded templates, possibly empty.
func (c *Catalog) Templates() []api.Template {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]api.Template, len(c.templates))
	copy(out, c.templates)
	return out
}

// CaseTypes returns the known case types, or the default when the catalog
// is empty.
func (c *Catalog) CaseTypes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.templates) == 0 {
		return []string{defaultCaseType}
	}
	types := make([]string, 0, len(c.templates))
	for _, t := range c.templates {
		types = append(types, t.CaseType)
	}
	return types
}

// set replaces the catalog contents.
func (c *Catalog) set(templates []api.Template) {
	c.mu.Lock()
	c.templates = templates
	c.mu.Unlock()
}

// Prefetch verifies backend reachability and loads the template catalog,
// concurrently and without blocking the caller. The health outcome is
// reported to the user as a system, warning, or error turn; a catalog
// failure is logged only and leaves the catalog empty.
//
// The returned channel closes when both checks have finished.
func Prefetch(ctx context.Context, src CatalogSource, store *session.Store, log *slog.Logger) (*Catalog, <-chan struct{}) {
	if log == nil {
		log = slog.Default()
	}
	catalog := &Catalog{}
	done := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		status, err := src.Health(ctx)
		switch {
		case err != nil:
			log.Warn("health check failed", "error", err)
			store.Append(session.NewTurn(session.RoleError,
				"The drafting service is unreachable. Requests will fail until it is back."))
		case !status.Healthy():
			log.Warn("backend degraded", "status", status.Status)
			store.Append(session.NewTurn(session.RoleWarning,
				fmt.Sprintf("The drafting service reports status %q. Some features may not work.", status.Status)))
		default:
			store.Append(session.NewTurn(session.RoleSystem,
				"Connected to the drafting service. Ready to draft."))
		}
	}()

	go func() {
		defer wg.Done()
		list, err := src.ListTemplates(ctx)
		if err != nil {
			log.Warn("template catalog load failed", "error", err)
			return
		}
		catalog.set(list.Templates)
	}()

	go func() {
		wg.Wait()
		close(done)
	}()

	return catalog, done
}

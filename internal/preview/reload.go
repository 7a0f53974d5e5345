package preview

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fullstackmenu/stackdocs/internal/engine"
	"github.com/fullstackmenu/stackdocs/internal/logfields"
	"github.com/fullstackmenu/stackdocs/internal/observability"
)

// Source is content that can be rescanned.
type Source interface {
	Invalidate()
	PageMap(ctx context.Context) (*engine.PageMap, error)
}

// Reload drops cached content, rescans it and broadcasts the new page-map
// version. A failed scan broadcasts a unique error marker so browsers reload
// into the error page.
func Reload(ctx context.Context, src Source, hub *Hub) {
	src.Invalidate()
	pm, err := src.PageMap(ctx)
	if err != nil {
		observability.WarnContext(ctx, "Content rescan failed", logfields.Error(err))
		hub.Broadcast(fmt.Sprintf("error:%d", time.Now().UnixNano()))
		return
	}
	observability.DebugContext(ctx, "Content rescanned", logfields.Count(pm.Len()), slog.String("version", pm.Version))
	hub.Broadcast(pm.Version)
}

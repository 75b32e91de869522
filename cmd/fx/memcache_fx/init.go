package memcache_fx

import (
	"go.uber.org/fx"

	"backoffice/internal/config"
	mem "backoffice/pkg/memcache"
)

var Module = fx.Provide(provideViewCache)

// provideViewCache is shared by the feature-flag and remote-config views.
func provideViewCache(cfg *config.Config) mem.ViewCache {
	return mem.NewViewCache(cfg.Cache.Size, cfg.CacheTTL())
}

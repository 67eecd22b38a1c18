package app

import (
	"github.com/bethropolis/textfinder/internal/config"
	"github.com/bethropolis/textfinder/internal/event"
	"github.com/bethropolis/textfinder/internal/logger"
	"github.com/bethropolis/textfinder/internal/render"
)

// subscribe wires the App level handlers.
func (a *App) subscribe() {
	a.eventManager.Subscribe(event.TypeBufferLoaded, a.handleBufferLoaded)
	a.eventManager.Subscribe(event.TypeConfigReloaded, a.handleConfigReloaded)
}

// handleBufferLoaded notes reloads seen while watching.
func (a *App) handleBufferLoaded(e event.Event) bool {
	if data, ok := e.Data.(event.BufferLoadedData); ok && a.live.Load() {
		logger.Infof("App: %s changed on disk, rescanning", data.FilePath)
	}
	return false // Not consumed
}

// handleConfigReloaded re-reads the config file and applies the search and
// highlight settings to every open session.
func (a *App) handleConfigReloaded(e event.Event) bool {
	data, ok := e.Data.(event.ConfigReloadedData)
	if !ok {
		return false
	}
	cfg, err := config.Load(data.FilePath, a.flags)
	if err != nil {
		logger.Warnf("App: config reload failed, keeping current settings: %v", err)
		return false
	}

	th := a.loadTheme(cfg)
	a.outMu.Lock()
	a.cfg = cfg
	a.renderer = render.NewRenderer(th, cfg.Highlight.Color)
	a.outMu.Unlock()

	logger.Infof("App: reloaded configuration from %s", data.FilePath)
	a.finder.Configure(cfg.Search)
	return false
}

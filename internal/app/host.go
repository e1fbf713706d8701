package app

import (
	"github.com/rs/zerolog"

	"guidekit/internal/overlay"
	"guidekit/internal/screens"
)

// headlessHost is the platform side of one screen when no UI is attached. It
// logs what a UI would render and tells the app when the screen finishes.
type headlessHost struct {
	app    *App
	screen screens.Screen
	log    zerolog.Logger

	finished int
	prompts  int
	lastErr  error
}

func (h *headlessHost) Finish() {
	h.finished++
	h.log.Info().Msg("screen finished")
	if h.screen != nil {
		h.screen.Overlays().Clear()
		h.app.finish(h.screen)
	}
}

func (h *headlessHost) PromptLogin() {
	h.prompts++
	h.log.Info().Msg("login prompt shown")
}

func (h *headlessHost) ShowError(err error) {
	h.lastErr = err
	h.log.Warn().Err(err).Msg("error shown")
}

func (h *headlessHost) Present(e overlay.Entry) {
	h.log.Debug().Str("overlay", e.Tag).Str("container", e.Container).Str("message", e.Message).Msg("overlay shown")
}

func (h *headlessHost) Dismiss(e overlay.Entry) {
	h.log.Debug().Str("overlay", e.Tag).Msg("overlay hidden")
}

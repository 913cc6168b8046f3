package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/evyataryagoni/weather-widget/internal/models"
	"github.com/evyataryagoni/weather-widget/internal/store"
	"github.com/google/uuid"
)

// SessionCookieName holds the widget session ID
const SessionCookieName = "weather_session"

// sessionID returns the caller's session ID, issuing a new cookie when the
// request carries none or carries something that is not a UUID
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// loadState returns the session's state, or the idle state for a new or
// expired session. Unreadable state is dropped so the session can recover.
func (h *WeatherHandler) loadState(ctx context.Context, id string) models.State {
	state, err := h.sessions.Load(ctx, id)
	if err == nil {
		return state
	}
	if !errors.Is(err, store.ErrSessionNotFound) {
		h.logger.Error().Err(err).Str("session_id", id).Msg("Failed to load session state, starting fresh")
		if err := h.sessions.Delete(ctx, id); err != nil {
			h.logger.Error().Err(err).Str("session_id", id).Msg("Failed to delete session state")
		}
	}
	return models.State{}
}

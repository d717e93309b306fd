package httpserver

import (
	"net/http"
	"time"

	"hotel_booking/internal/app"
)

func (h *Handlers) setSession(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.Sessions.TTL().Seconds()),
	})
}

// clearSession replaces the cookie with an empty one that is already expired.
// A still-valid token replayed afterwards is not revoked.
func (h *Handlers) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var in app.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err, defaultNotFound)
		return
	}
	_, token, err := h.Accounts.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, err, defaultNotFound)
		return
	}
	h.setSession(w, token)
	writeJSON(w, http.StatusOK, map[string]string{"message": "User registered"})
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var in app.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err, defaultNotFound)
		return
	}
	u, token, err := h.Accounts.Login(r.Context(), in)
	if err != nil {
		writeError(w, r, err, defaultNotFound)
		return
	}
	h.setSession(w, token)
	writeJSON(w, http.StatusOK, map[string]string{"userId": u.ID})
}

func (h *Handlers) validateToken(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"userId": UserIDFrom(r.Context())})
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	h.clearSession(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (h *Handlers) me(w http.ResponseWriter, r *http.Request) {
	u, err := h.Accounts.Me(r.Context(), UserIDFrom(r.Context()))
	if err != nil {
		writeError(w, r, err, notFound{status: http.StatusBadRequest, detail: "User not found"})
		return
	}
	writeJSON(w, http.StatusOK, u)
}

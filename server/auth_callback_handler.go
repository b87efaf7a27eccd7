package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

const contentTypeJSON = "application/json; charset=utf-8"

type callbackErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	State   string `json:"state,omitempty"`
}

// AuthCallbackHandler receives the identity provider redirect. It only
// parks the code in the auth_code cookie; the session middleware exchanges
// it on the next page load.
func (s *Server) AuthCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		code := query.Get("code")
		state := query.Get("state")

		if errorParam := query.Get("error"); errorParam != "" {
			log.Ctx(r.Context()).Warn().
				Str("error", errorParam).
				Str("error_description", query.Get("error_description")).
				Msg("Identity provider returned an error")
		}

		if code == "" {
			writeJSON(w, http.StatusBadRequest, callbackErrorResponse{
				Message: "Authorization code missing",
				Code:    "",
				State:   state,
			})
			return
		}

		s.cookies.SetAuthCode(w, code)
		http.Redirect(w, r, RouteHome, http.StatusFound)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

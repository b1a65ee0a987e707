package controllers

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/emontecinos/campusmarket-backend/api/middleware"
	"github.com/emontecinos/campusmarket-backend/api/responses"
	"github.com/emontecinos/campusmarket-backend/internal/realtime"
	pkgAuth "github.com/emontecinos/campusmarket-backend/pkg/auth"
	"github.com/emontecinos/campusmarket-backend/pkg/auth/session"
	"github.com/emontecinos/campusmarket-backend/pkg/config"
	pkgerrors "github.com/emontecinos/campusmarket-backend/pkg/errors"
	"github.com/emontecinos/campusmarket-backend/pkg/logger"
)

var chatUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Browsers cannot set Authorization headers on websocket dials, so the
	// token authenticates the connection instead of the origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ChatSocket upgrades the connection and attaches it to the presence hub.
// Browser clients pass the access token as a query parameter because the
// websocket handshake cannot carry custom headers.
func ChatSocket(cfg *config.Config, verifier session.AccessSessionChecker, hub *realtime.Hub, handler realtime.EventHandler, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if hub == nil || handler == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "realtime hub unavailable"))
			return
		}

		token := strings.TrimSpace(r.URL.Query().Get("token"))
		if token == "" {
			token = middleware.BearerToken(r)
		}
		if token == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		claims, err := pkgAuth.ParseAccessToken(cfg.JWT, token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
			return
		}
		if claims.ID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
			return
		}

		if verifier != nil {
			ok, err := verifier.HasSession(r.Context(), claims.ID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
				return
			}
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
				return
			}
		}

		conn, err := chatUpgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already wrote the handshake failure to the client.
			if logg != nil {
				logg.Error(r.Context(), "ws.upgrade.failed", err)
			}
			return
		}

		if logg != nil {
			ctx := logg.WithField(r.Context(), "account_id", claims.AccountID)
			logg.Info(ctx, "ws.connected")
		}

		client := realtime.NewClient(conn, claims.AccountID, claims.DisplayName, hub, handler, cfg.Chat, logg)
		client.Start()
	}
}

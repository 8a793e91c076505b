package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/wizix/pickem-pool/internal/usecase"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The handler checks the Origin against the configured allow list before
	// upgrading, so the upgrader itself accepts everything.
	CheckOrigin: func(_ *http.Request) bool { return true },
}

func (h *Handler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StreamEvents")
	defer span.End()

	if h.hub == nil {
		writeError(ctx, w, fmt.Errorf("%w: realtime hub is not running", usecase.ErrDependencyUnavailable))
		return
	}

	// Non-browser clients send no Origin and pass through.
	if origin := strings.TrimSpace(r.Header.Get("Origin")); origin != "" && !h.wsOrigins.allow(origin) {
		writeError(ctx, w, fmt.Errorf("%w: origin %q is not allowed", usecase.ErrForbidden, origin))
		return
	}

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the handshake failure to the client.
		h.logger.WarnContext(ctx, "websocket upgrade failed", "remote_addr", r.RemoteAddr, "error", err)
		return
	}

	if client := h.hub.Attach(conn); client == nil {
		_ = conn.Close()
	}
}

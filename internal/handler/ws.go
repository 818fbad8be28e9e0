package handler

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/isazadesabuhi/studxus-backend/internal/ws"
)

// WSHandler upgrades authenticated clients to a WebSocket connection on the
// notification hub. Browsers cannot set an Authorization header on WebSocket
// requests, so the access token is also accepted as a ?token= query
// parameter.
type WSHandler struct {
	Secret string
	Hub    *ws.Hub
}

func NewWSHandler(secret string, hub *ws.Hub) *WSHandler {
	if hub == nil {
		panic("nil hub passed to NewWSHandler")
	}
	return &WSHandler{Secret: secret, Hub: hub}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API serves first parties only; tokens, not origins, gate access.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Connect handles GET /v1/ws.
func (h *WSHandler) Connect(c echo.Context) error {
	raw := c.QueryParam("token")
	if raw == "" {
		auth := c.Request().Header.Get("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			raw = strings.TrimPrefix(auth, "Bearer ")
		}
	}
	if raw == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing token"})
	}
	userID, err := h.verify(raw)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	client := ws.NewClient(userID, conn)
	h.Hub.Add(client)
	go client.WritePump()
	go client.ReadPump(h.Hub)
	return nil
}

func (h *WSHandler) verify(raw string) (uint64, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(h.Secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, echo.ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, echo.ErrUnauthorized
	}
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return 0, echo.ErrUnauthorized
	}
	return uint64(sub), nil
}

package handlers

import (
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
)

// Upgrader accepte toute origine si la liste est vide, sinon seulement les
// origines CORS configurées. Sans en-tête Origin (client non navigateur) : accepté.
func Upgrader(origins []string) websocket.Upgrader {
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if len(origins) == 0 || origin == "" {
				return true
			}
			return slices.Contains(origins, origin)
		},
	}
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CharGoon26/dwdex-battles/internal/battle"
)

// ListCatalog returns the configured unit templates and the move set.
// Public: chat gateways use it to render pickers before authentication.
func (h *Handler) ListCatalog(c *gin.Context) {
	moves := make([]battle.Move, 0, len(battle.MoveIDs()))
	for _, id := range battle.MoveIDs() {
		mv, err := battle.Lookup(id)
		if err != nil {
			continue
		}
		moves = append(moves, mv)
	}
	c.JSON(http.StatusOK, gin.H{
		"units": h.catalog.All(),
		"moves": moves,
	})
}

package handlers

import (
	"net/http"

	"crafting_arena/internal/domain"
	"crafting_arena/internal/repository"
	"crafting_arena/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB          *pgxpool.Pool
	AuthSecret  string
	AccountRepo *repository.AccountRepository
	Tokens      *service.TokenService
	NFTs        *service.NFTService
	Interface   *service.InterfaceService
	Arena       *service.ArenaService
}

func NewHandler(db *pgxpool.Pool, authSecret string, tokens *service.TokenService, nfts *service.NFTService, iface *service.InterfaceService, arena *service.ArenaService) *Handler {
	return &Handler{
		DB:          db,
		AuthSecret:  authSecret,
		AccountRepo: repository.NewAccountRepository(db),
		Tokens:      tokens,
		NFTs:        nfts,
		Interface:   iface,
		Arena:       arena,
	}
}

// getAddress pulls the authenticated address set by the JWT middleware
func getAddress(c *gin.Context) (string, bool) {
	v, ok := c.Get("address")
	if !ok {
		return "", false
	}
	addr, ok := v.(string)
	return addr, ok && addr != ""
}

// respondAction writes the common payload for a dispatched contract
// action. A plan failure has no call; a failed invocation still reports
// the recorded call id and outcome.
func respondAction(c *gin.Context, pc *domain.PendingCall, err error) {
	if err != nil {
		body := gin.H{"error": err.Error()}
		if pc != nil {
			body["call_id"] = pc.ID
			body["outcome"] = pc.Outcome
		}
		c.JSON(http.StatusBadRequest, body)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"call_id":        pc.ID,
		"status":         pc.Status,
		"outcome":        pc.Outcome,
		"back_transfers": pc.BackTransfers,
	})
}

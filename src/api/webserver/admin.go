package webserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mrpepsi1069/LockerRoom/src/data"
	"github.com/mrpepsi1069/LockerRoom/src/premium"
	"github.com/rs/zerolog/log"
)

type Admin struct {
	store   data.Store
	premium *premium.Service
}

func NewAdmin(store data.Store, prem *premium.Service) Admin {
	return Admin{store: store, premium: prem}
}

func abortJSON(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"err": msg})
}

func validGuildID(id string) bool {
	_, err := strconv.ParseUint(id, 10, 64)
	return err == nil
}

func (a Admin) Stats(c *gin.Context) {
	st, err := a.store.Stats(c.Request.Context())
	if err != nil {
		abortJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, st)
}

func (a Admin) GrantPremium(c *gin.Context) {
	var req struct {
		GuildID string `json:"guild_id" binding:"required,min=5,max=32"`
		Days    int    `json:"days" binding:"min=0,max=3650"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	if !validGuildID(req.GuildID) {
		abortJSON(c, http.StatusBadRequest, "invalid guild id")
		return
	}

	st, err := a.premium.Grant(c.Request.Context(), req.GuildID, req.Days)
	if errors.Is(err, data.ErrNotFound) {
		abortJSON(c, http.StatusNotFound, "guild not found")
		return
	}
	if err != nil {
		abortJSON(c, http.StatusInternalServerError, err.Error())
		return
	}

	log.Info().Str("module", "webserver").Str("admin", c.GetString("admin")).Str("guild", req.GuildID).
		Int("days", req.Days).Msg("premium granted")
	c.JSON(http.StatusOK, gin.H{"success": true, "status": st})
}

func (a Admin) RevokePremium(c *gin.Context) {
	guildID := c.Param("guild")
	if !validGuildID(guildID) {
		abortJSON(c, http.StatusBadRequest, "invalid guild id")
		return
	}
	changed, err := a.premium.Revoke(c.Request.Context(), guildID)
	if errors.Is(err, data.ErrNotFound) {
		abortJSON(c, http.StatusNotFound, "guild not found")
		return
	}
	if err != nil {
		abortJSON(c, http.StatusInternalServerError, err.Error())
		return
	}

	log.Info().Str("module", "webserver").Str("admin", c.GetString("admin")).Str("guild", guildID).
		Bool("changed", changed).Msg("premium revoked")
	c.JSON(http.StatusOK, gin.H{"success": true, "changed": changed})
}

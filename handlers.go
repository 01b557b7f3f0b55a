package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vkinder/models"
	"vkinder/pkg/matching"
)

func setupRoutes(r *gin.Engine) {
	users := r.Group("/users/:id")
	users.POST("/sync", syncUserHandler)
	users.GET("", getUserHandler)
	users.PATCH("", updateUserHandler)
	users.DELETE("", deleteUserHandler)
	users.GET("/candidates", findCandidatesHandler)
	users.GET("/stats", statsHandler)

	users.POST("/favorites", addFavoriteHandler)
	users.GET("/favorites", listFavoritesHandler)
	users.DELETE("/favorites/:candidateId", removeFavoriteHandler)
	users.DELETE("/favorites", clearFavoritesHandler)

	users.POST("/blacklist", addToBlacklistHandler)
	users.GET("/blacklist", listBlacklistHandler)

	users.POST("/viewed", markViewedHandler)

	r.GET("/candidates/:id/photos", candidatePhotosHandler)
	r.POST("/admin/viewed/purge", purgeViewedHandler)
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// syncUserHandler fetches the profile from VK and upserts it. Re-syncs are
// last-write-wins on all mutable fields.
func syncUserHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	profile, err := vkClient.FetchProfile(c.Request.Context(), id)
	if errors.Is(err, matching.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	if err != nil {
		logger.Error().Err(err).Int64("user_id", id).Msg("profile fetch failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "profile fetch failed"})
		return
	}

	user := models.User{
		ID:        profile.ID,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Age:       profile.Age,
		City:      profile.City,
		Country:   profile.Country,
		Sex:       int(profile.Sex),
	}
	if err := interactions.UpsertUser(c.Request.Context(), &user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func getUserHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user, err := interactions.GetUser(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// updateUserHandler applies per-field search-preference updates. Only the
// fields present in the body are touched.
func updateUserHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Sex  *int    `json:"sex" binding:"omitempty,min=0,max=2"`
		Age  *int    `json:"age" binding:"omitempty,min=10,max=100"`
		City *string `json:"city"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Sex == nil && req.Age == nil && req.City == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	ctx := c.Request.Context()
	found := true
	if req.Sex != nil {
		ok, err := interactions.UpdateUserSex(ctx, id, *req.Sex)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
			return
		}
		found = found && ok
	}
	if req.Age != nil {
		ok, err := interactions.UpdateUserAge(ctx, id, *req.Age)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
			return
		}
		found = found && ok
	}
	if req.City != nil {
		ok, err := interactions.UpdateUserCity(ctx, id, *req.City)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
			return
		}
		found = found && ok
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// deleteUserHandler is the external admin action; interaction rows cascade.
func deleteUserHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := interactions.DeleteUser(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// findCandidatesHandler runs the matching pipeline and marks every surfaced
// candidate as viewed so repeated searches never re-surface them.
func findCandidatesHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	user, err := interactions.GetUser(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not synced, call /users/:id/sync first"})
		return
	}

	profile := matching.Profile{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Age:       user.Age,
		City:      user.City,
		Country:   user.Country,
		Sex:       matching.Sex(user.Sex),
	}
	candidates := matcher.FindCandidates(ctx, profile)
	for _, cand := range candidates {
		if _, err := interactions.MarkViewed(ctx, id, cand.ID); err != nil {
			logger.Warn().Err(err).Int64("candidate_id", cand.ID).Msg("failed to mark candidate viewed")
		}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(candidates), "candidates": candidates})
}

func candidatePhotosHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	photos := matcher.RankedPhotos(c.Request.Context(), id)
	c.JSON(http.StatusOK, gin.H{"count": len(photos), "photos": photos})
}

func addFavoriteHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		CandidateID int64  `json:"candidate_id" binding:"required"`
		FirstName   string `json:"first_name"`
		LastName    string `json:"last_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	added, err := interactions.AddFavorite(c.Request.Context(), id, req.CandidateID, req.FirstName, req.LastName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add favorite"})
		return
	}
	// added=false means the pair already existed; expected, not an error.
	c.JSON(http.StatusOK, gin.H{"added": added})
}

func listFavoritesHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	favorites := interactions.ListFavorites(c.Request.Context(), id)
	c.JSON(http.StatusOK, gin.H{"count": len(favorites), "favorites": favorites})
}

func removeFavoriteHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	candidateID, ok := paramID(c, "candidateId")
	if !ok {
		return
	}
	if err := interactions.RemoveFavorite(c.Request.Context(), id, candidateID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove favorite"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}

func clearFavoritesHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := interactions.ClearFavorites(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear favorites"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}

func addToBlacklistHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		CandidateID int64 `json:"candidate_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	okAdd, err := interactions.AddToBlacklist(c.Request.Context(), id, req.CandidateID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to blacklist"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"blacklisted": okAdd})
}

func listBlacklistHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ids := interactions.ListBlacklist(c.Request.Context(), id)
	c.JSON(http.StatusOK, gin.H{"count": len(ids), "candidate_ids": ids})
}

func markViewedHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		CandidateID int64 `json:"candidate_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	okMark, err := interactions.MarkViewed(c.Request.Context(), id, req.CandidateID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark viewed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"viewed": okMark})
}

func statsHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, interactions.Stats(c.Request.Context(), id))
}

// purgeViewedHandler runs the retention cleanup. days defaults to the
// configured retention window.
func purgeViewedHandler(c *gin.Context) {
	days := appCfg.Search.ViewedRetentionDays
	if v := c.Query("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days"})
			return
		}
		days = parsed
	}
	deleted, err := interactions.PurgeViewedOlderThan(c.Request.Context(), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "purge failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted, "days": days})
}

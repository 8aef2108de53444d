package platform

import (
	"app/base/fresh"
	"app/base/utils"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

const deleteNotAllowedMsg = "DELETE method is not allowed. It should be one of these method(s): GET"

// in-memory requester store behind the mock endpoints
var (
	requestersLock sync.Mutex
	requesters     = map[int64]*fresh.Requester{}
	nextID         int64 = 1
)

func initRequesters(app *gin.Engine) {
	seedRequesters()

	api := app.Group("/api/v2")
	api.GET("/requesters", listRequestersHandler)
	api.GET("/requesters/:id", getRequesterHandler)
	api.PUT("/requesters/:id", updateRequesterHandler)
	api.DELETE("/requesters/:id", deactivateRequesterHandler)
	api.PUT("/requesters/:id/reactivate", reactivateRequesterHandler)
	api.PUT("/requesters/:id/merge", mergeRequesterHandler)
}

func seedRequesters() {
	requestersLock.Lock()
	defer requestersLock.Unlock()

	seed := []struct {
		email     string
		active    bool
		lastLogin string
	}{
		{"alice@example.com", true, "2026-05-01T09:00:00Z"},
		{"bob@example.com", true, "2020-02-11T16:30:00Z"},
		{"carol@example.com", false, "2019-07-23T08:15:00Z"},
	}
	for _, s := range seed {
		addRequester(s.email, s.active, s.lastLogin)
	}
}

func addRequester(email string, active bool, lastLogin string) *fresh.Requester {
	requester := &fresh.Requester{
		ID:              nextID,
		PrimaryEmail:    &email,
		SecondaryEmails: &[]string{},
		Active:          &active,
		LastLoginAt:     &lastLogin,
	}
	requesters[nextID] = requester
	nextID++
	return requester
}

func loadRequesterID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.LogAndRespBadRequest(c, err, "invalid requester ID")
		return 0, false
	}
	return id, true
}

func listRequestersHandler(c *gin.Context) {
	page, perPage, err := utils.LoadPageParams(c, 30, 100)
	if err != nil {
		utils.LogAndRespBadRequest(c, err, err.Error())
		return
	}

	requestersLock.Lock()
	defer requestersLock.Unlock()

	ids := make([]int64, 0, len(requesters))
	for id := range requesters {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	start := (page - 1) * perPage
	end := start + perPage
	if start > len(ids) {
		start = len(ids)
	}
	if end > len(ids) {
		end = len(ids)
	}

	pageItems := make([]fresh.Requester, 0, end-start)
	for _, id := range ids[start:end] {
		pageItems = append(pageItems, *requesters[id])
	}
	c.JSON(http.StatusOK, fresh.RequestersResponse{Requesters: pageItems})
}

func getRequesterHandler(c *gin.Context) {
	id, ok := loadRequesterID(c)
	if !ok {
		return
	}

	requestersLock.Lock()
	defer requestersLock.Unlock()

	requester, has := requesters[id]
	if !has {
		utils.LogAndRespNotFound(c, errors.New("requester not found"), "requester not found")
		return
	}
	c.JSON(http.StatusOK, fresh.RequesterResponse{Requester: *requester})
}

func updateRequesterHandler(c *gin.Context) {
	id, ok := loadRequesterID(c)
	if !ok {
		return
	}

	var update fresh.RequesterUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		utils.LogAndRespBadRequest(c, err, "invalid request body")
		return
	}

	requestersLock.Lock()
	defer requestersLock.Unlock()

	requester, has := requesters[id]
	if !has {
		utils.LogAndRespNotFound(c, errors.New("requester not found"), "requester not found")
		return
	}

	if update.PrimaryEmail != nil {
		requester.PrimaryEmail = update.PrimaryEmail
	}
	if update.SecondaryEmails != nil {
		requester.SecondaryEmails = update.SecondaryEmails
	}
	if update.ExternalID != nil {
		requester.ExternalID = update.ExternalID
	}
	c.JSON(http.StatusOK, fresh.RequesterResponse{Requester: *requester})
}

func deactivateRequesterHandler(c *gin.Context) {
	id, ok := loadRequesterID(c)
	if !ok {
		return
	}

	requestersLock.Lock()
	defer requestersLock.Unlock()

	requester, has := requesters[id]
	if !has {
		utils.LogAndRespNotFound(c, errors.New("requester not found"), "requester not found")
		return
	}
	if !requester.GetActive() {
		// the real API hides deactivated requesters from DELETE
		c.JSON(http.StatusMethodNotAllowed, gin.H{"message": deleteNotAllowedMsg})
		return
	}

	active := false
	requester.Active = &active
	c.Status(http.StatusNoContent)
}

func reactivateRequesterHandler(c *gin.Context) {
	id, ok := loadRequesterID(c)
	if !ok {
		return
	}

	requestersLock.Lock()
	defer requestersLock.Unlock()

	requester, has := requesters[id]
	// the real API answers 404 both for missing and for already active requesters
	if !has || requester.GetActive() {
		utils.LogAndRespNotFound(c, errors.New("requester not found"), "requester not found")
		return
	}

	active := true
	requester.Active = &active
	c.JSON(http.StatusOK, fresh.RequesterResponse{Requester: *requester})
}

func mergeRequesterHandler(c *gin.Context) {
	primaryID, ok := loadRequesterID(c)
	if !ok {
		return
	}
	secondaryID, err := strconv.ParseInt(c.Query("secondary_requesters"), 10, 64)
	if err != nil {
		utils.LogAndRespBadRequest(c, err, "invalid secondary_requesters parameter")
		return
	}

	requestersLock.Lock()
	defer requestersLock.Unlock()

	primary, hasPrimary := requesters[primaryID]
	secondary, hasSecondary := requesters[secondaryID]
	if !hasPrimary || !hasSecondary {
		utils.LogAndRespNotFound(c, errors.New("requester not found"), "requester not found")
		return
	}
	if !primary.GetActive() {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "primary_requester_should_be_active",
			"message": "Primary requester should be active",
		})
		return
	}

	merged := append(primary.GetSecondaryEmails(), secondary.GetPrimaryEmail())
	merged = append(merged, secondary.GetSecondaryEmails()...)
	primary.SecondaryEmails = &merged

	active := false
	secondary.Active = &active
	c.Status(http.StatusNoContent)
}

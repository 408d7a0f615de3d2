package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"certitrack-backend/internal/apperr"
	"certitrack-backend/internal/model"
)

// vapidKey hands the browser the public key it needs to subscribe.
func (h *Handler) vapidKey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"public_key": h.cfg.Push.PublicKey})
}

// listSubscriptions returns the caller's company subscriptions.
func (h *Handler) listSubscriptions(c *gin.Context) {
	id := currentIdentity(c)
	if id.CompanyID == nil {
		respondError(c, apperr.Forbidden("push subscriptions require a company account"))
		return
	}
	subs, err := h.store.SubscriptionsForCompany(c.Request.Context(), *id.CompanyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": subs})
}

type subscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
	Keys     struct {
		P256DH string `json:"p256dh" binding:"required"`
		Auth   string `json:"auth" binding:"required"`
	} `json:"keys" binding:"required"`
}

// subscribe stores the browser's push subscription under the caller's
// company; re-subscribing the same endpoint refreshes the keys.
func (h *Handler) subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := currentIdentity(c)
	if id.CompanyID == nil {
		respondError(c, apperr.Forbidden("push subscriptions require a company account"))
		return
	}

	sub := &model.PushSubscription{
		Endpoint:  req.Endpoint,
		CompanyID: *id.CompanyID,
		P256DH:    req.Keys.P256DH,
		Auth:      req.Keys.Auth,
	}
	if err := h.store.UpsertSubscription(c.Request.Context(), sub); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"subscribed": true})
}

type unsubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

func (h *Handler) unsubscribe(c *gin.Context) {
	var req unsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.DeleteSubscription(c.Request.Context(), req.Endpoint); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

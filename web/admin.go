package web

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tourcab/auth"
	"tourcab/booking"
	dbt "tourcab/db/db"
)

const (
	sessionCookie = "tourcab_session"
	identityKey   = "identity"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleLoginRequest struct {
	Credential string `json:"credential"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// bearerOrCookie extracts the session token from the Authorization header,
// falling back to the session cookie.
func bearerOrCookie(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	token, _ := c.Cookie(sessionCookie)
	return token
}

// identify parses the session, if any, without rejecting the request.
func (h *handler) identify(c *gin.Context) (auth.Identity, bool) {
	token := bearerOrCookie(c)
	if token == "" {
		return auth.Identity{}, false
	}
	id, err := h.deps.Tokens.Parse(token)
	if err != nil {
		slog.DebugContext(c.Request.Context(), "rejected session token", "request_id", requestID(c), "err", err)
		return auth.Identity{}, false
	}
	return id, true
}

// requireAdmin lets through signed-in identities on the allow-list.
func (h *handler) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.identify(c)
		if !ok {
			abortError(c, http.StatusUnauthorized, codeUnauthenticated, "sign in required")
			return
		}
		if !h.deps.Authorizer.Authorize(c.Request.Context(), id) {
			slog.WarnContext(c.Request.Context(), "access denied", "email", id.Email, "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

func actor(c *gin.Context) string {
	if id, ok := c.Get(identityKey); ok {
		return id.(auth.Identity).Email
	}
	return ""
}

func (h *handler) startSession(c *gin.Context, id auth.Identity) {
	token, exp, err := h.deps.Tokens.Issue(id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, int(h.deps.Tokens.TTL().Seconds()), "/", "", !h.deps.IsDev, true)
	c.JSON(http.StatusOK, gin.H{
		"identity":   id,
		"authorized": h.deps.Authorizer.Authorize(c.Request.Context(), id),
		"token":      token,
		"expiresAt":  exp.Format(time.RFC3339),
	})
}

func (h *handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}
	id, err := h.deps.Passwords.Authenticate(req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrPasswordDisabled):
		abortError(c, http.StatusNotFound, codeNotFound, err.Error())
		return
	case err != nil:
		abortError(c, http.StatusUnauthorized, codeUnauthenticated, auth.ErrInvalidCredentials.Error())
		return
	}
	h.startSession(c, id)
}

func (h *handler) loginGoogle(c *gin.Context) {
	var req googleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Credential == "" {
		abortError(c, http.StatusBadRequest, codeBadRequest, "credential is required")
		return
	}
	if !h.deps.Google.Enabled() {
		abortError(c, http.StatusNotFound, codeNotFound, "google sign-in is not configured")
		return
	}
	id, err := h.deps.Google.Verify(c.Request.Context(), req.Credential)
	if err != nil {
		slog.InfoContext(c.Request.Context(), "google sign-in failed", "request_id", requestID(c), "err", err)
		abortError(c, http.StatusUnauthorized, codeUnauthenticated, err.Error())
		return
	}
	h.startSession(c, id)
}

func (h *handler) logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", !h.deps.IsDev, true)
	c.Status(http.StatusNoContent)
}

func (h *handler) me(c *gin.Context) {
	id, ok := h.identify(c)
	if !ok {
		abortError(c, http.StatusUnauthorized, codeUnauthenticated, "sign in required")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"identity":   id,
		"authorized": h.deps.Authorizer.Authorize(c.Request.Context(), id),
	})
}

func bookingID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortError(c, http.StatusBadRequest, codeInvalidID, "invalid booking id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *handler) listBookings(c *gin.Context) {
	list, err := h.deps.Bookings.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handler) getBooking(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	b, err := h.deps.Bookings.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *handler) updateStatus(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}
	status, err := dbt.ParseStatus(req.Status)
	if err != nil {
		abortError(c, http.StatusBadRequest, codeInvalidStatus, err.Error())
		return
	}
	info, err := h.deps.Bookings.UpdateStatus(c.Request.Context(), id, status, actor(c))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *handler) deleteBooking(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	if c.Query("confirm") != "true" {
		abortError(c, http.StatusPreconditionRequired, codeConfirmationRequired, "add confirm=true to delete this booking")
		return
	}
	if err := h.deps.Bookings.Delete(c.Request.Context(), id, actor(c)); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) bookingHistory(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	events, err := h.deps.Bookings.History(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *handler) bookingSummary(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.deps.Bookings.WriteSummaryPDF(c.Request.Context(), id, &buf); err != nil {
		handleError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+booking.SummaryFilename(id)+`"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

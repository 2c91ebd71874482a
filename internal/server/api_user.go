package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	userhttpmapper "github.com/Apurer/user-management-api/internal/domains/users/adapters/http/mapper"
	userdomain "github.com/Apurer/user-management-api/internal/domains/users/domain"
	userports "github.com/Apurer/user-management-api/internal/domains/users/ports"
)

// UserAPI serves the /users resource.
type UserAPI struct {
	service userports.Service
}

// NewUserAPI wires dependencies.
func NewUserAPI(service userports.Service) UserAPI {
	return UserAPI{service: service}
}

// Post /users
// Create user
func (api *UserAPI) CreateUser(c *gin.Context) {
	var payload userhttpmapper.UserRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	user, err := userhttpmapper.ToDomainUser(payload)
	if err != nil {
		respondBadRequest(c, "%s", err.Error())
		return
	}
	saved, err := api.service.Create(c.Request.Context(), user)
	if err != nil {
		respondUserError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userhttpmapper.FromDomainUser(saved))
}

// Get /users/:id
// Get user by id
func (api *UserAPI) GetUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	user, err := api.service.Get(c.Request.Context(), id)
	if err != nil {
		respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.FromDomainUser(user))
}

// Put /users/:id
// Replace every field of a user
func (api *UserAPI) UpdateUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	var payload userhttpmapper.UserRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	user, err := userhttpmapper.ToDomainUser(payload)
	if err != nil {
		respondBadRequest(c, "%s", err.Error())
		return
	}
	updated, err := api.service.Update(c.Request.Context(), id, user)
	if err != nil {
		respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.FromDomainUser(updated))
}

// Patch /users/:id
// Update the supplied fields of a user
func (api *UserAPI) PatchUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	var payload userhttpmapper.UserPatchRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	payload.Normalize()
	if err := binding.Validator.ValidateStruct(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	patch, err := userhttpmapper.ToDomainPatch(payload)
	if err != nil {
		respondBadRequest(c, "%s", err.Error())
		return
	}
	updated, err := api.service.PartialUpdate(c.Request.Context(), id, patch)
	if err != nil {
		respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.FromDomainUser(updated))
}

// Delete /users/:id
// Delete user
func (api *UserAPI) DeleteUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	if err := api.service.Delete(c.Request.Context(), id); err != nil {
		respondUserError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /users
// List users born within a date range
func (api *UserAPI) ListUsers(c *gin.Context) {
	query, ok := birthDateQuery(c)
	if !ok {
		return
	}
	users, err := api.service.ListByBirthDate(c.Request.Context(), query)
	if err != nil {
		respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.FromDomainUsers(users))
}

func userID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondBadRequest(c, "invalid user id: %q", raw)
		return 0, false
	}
	return id, true
}

func birthDateQuery(c *gin.Context) (userdomain.BirthDateQuery, bool) {
	var query userdomain.BirthDateQuery
	var ok bool
	if query.From, ok = dateQuery(c, "from"); !ok {
		return query, false
	}
	if query.To, ok = dateQuery(c, "to"); !ok {
		return query, false
	}
	if query.Page, ok = intQuery(c, "page", 0); !ok {
		return query, false
	}
	if query.Size, ok = intQuery(c, "count", userdomain.DefaultPageSize); !ok {
		return query, false
	}
	sort, err := userdomain.ParseSort(c.Query("sortBy"))
	if err != nil {
		respondBadRequest(c, "%s", err.Error())
		return query, false
	}
	query.Sort = sort
	return query, true
}

func dateQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		respondBadRequest(c, "query parameter %q is required", name)
		return time.Time{}, false
	}
	date, err := userhttpmapper.ParseDate(raw)
	if err != nil {
		respondBadRequest(c, "query parameter %q must be a date in YYYY-MM-DD format", name)
		return time.Time{}, false
	}
	return date, true
}

func intQuery(c *gin.Context, name string, fallback int) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		respondBadRequest(c, "query parameter %q must be an integer", name)
		return 0, false
	}
	return value, true
}

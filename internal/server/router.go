package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers mounted by the router.
type ApiHandleFunctions struct {
	// Routes for the UserAPI part of the API
	UserAPI UserAPI
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	registerValidators()
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		router.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	return router
}

// DefaultHandleFunc answers routes that have no handler wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// Healthz reports process liveness.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"Healthz",
			http.MethodGet,
			"/healthz",
			Healthz,
		},
		{
			"CreateUser",
			http.MethodPost,
			"/users",
			handleFunctions.UserAPI.CreateUser,
		},
		{
			"ListUsers",
			http.MethodGet,
			"/users",
			handleFunctions.UserAPI.ListUsers,
		},
		{
			"GetUser",
			http.MethodGet,
			"/users/:id",
			handleFunctions.UserAPI.GetUser,
		},
		{
			"UpdateUser",
			http.MethodPut,
			"/users/:id",
			handleFunctions.UserAPI.UpdateUser,
		},
		{
			"PatchUser",
			http.MethodPatch,
			"/users/:id",
			handleFunctions.UserAPI.PatchUser,
		},
		{
			"DeleteUser",
			http.MethodDelete,
			"/users/:id",
			handleFunctions.UserAPI.DeleteUser,
		},
	}
}

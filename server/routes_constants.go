package server

// Route path constants
const (
	RouteIndex = "/"

	// Identity and session routes
	RouteVerifyIDToken  = "/verifyIdToken"
	RouteSessionRefresh = "/session/refresh"
	RouteSessionRevoke  = "/session/revoke"
	RouteWellKnownJWKS  = "/.well-known/jwks.json"

	// Profile routes
	RouteSyncProfile = "/sync-profile"
	RouteProfile     = "/profile"

	// Task routes
	RouteTasks = "/tasks"

	// Inference
	RoutePredict = "/predict"
)

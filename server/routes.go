package server

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteIndex+"{$}", ChainMiddleware(s.IndexHandler(), s.APIMiddleware()...))

	// Identity exchange
	s.RegisterRouteHandler("POST "+RouteVerifyIDToken, ChainMiddleware(s.VerifyIDTokenHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteSessionRefresh, ChainMiddleware(s.RefreshSessionHandler(), s.APIMiddleware(s.RequireAssertion())...))
	s.RegisterRouteHandler("POST "+RouteSessionRevoke, ChainMiddleware(s.RevokeSessionHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteWellKnownJWKS, ChainMiddleware(s.JWKSHandler(), s.APIMiddleware()...))

	// Profiles
	s.RegisterRouteHandler("POST "+RouteSyncProfile, ChainMiddleware(s.SyncProfileHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("GET "+RouteProfile, ChainMiddleware(s.ProfileHandler(), s.APIMiddleware(s.RequireAuth())...))

	// Tasks
	s.RegisterRouteHandler("GET "+RouteTasks, ChainMiddleware(s.ListTasksHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("POST "+RouteTasks, ChainMiddleware(s.CreateTaskHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("DELETE "+RouteTasks, ChainMiddleware(s.DeleteTaskHandler(), s.APIMiddleware(s.RequireAuth())...))

	s.RegisterRouteHandler("POST "+RoutePredict, ChainMiddleware(s.PredictHandler(), s.APIMiddleware()...))

	// Browsers preflight every cross-origin route; unknown paths stay 404
	for _, path := range []string{
		RouteIndex + "{$}",
		RouteVerifyIDToken,
		RouteSessionRefresh,
		RouteSessionRevoke,
		RouteWellKnownJWKS,
		RouteSyncProfile,
		RouteProfile,
		RouteTasks,
		RoutePredict,
	} {
		s.RegisterRouteHandler("OPTIONS "+path, ChainMiddleware(s.PreflightHandler(), s.APIMiddleware()...))
	}
}

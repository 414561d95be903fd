// Package server runs the short-lived HTTP listener used by the auth command.
//
// # Router
//
// [BasicRouter] wraps [http.ServeMux] with method filtering and a [Middleware] stack.
// Middleware added first runs first.
//
// # OAuth Callback
//
// [OAuthHandler] serves the redirect target of the authorization code flow. It checks the
// state parameter, exchanges the code for a token and publishes exactly one [OAuthResult].
// Later hits are rejected.
//
// # Lifecycle
//
// [Server] binds the listener before returning so address errors surface immediately,
// serves in the background and reports late failures on [Server.Errors].
package server

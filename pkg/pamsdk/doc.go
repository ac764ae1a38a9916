/*
Package pamsdk provides a session-aware client for a player account management
(PAM) backend.

# Overview

The package is organised in layers, leaves first:

  - SessionToken: the session issued by login or registration
  - Authenticator: owns the AuthenticationState, streams its transitions and
    serialises session acquisition
  - Connector: builds, decorates and sends requests, then classifies every
    outcome into an AuthenticationError
  - Client: one method per backend operation on top of the Connector

Create one Authenticator per process and share it with every Client:

	env, err := pamsdk.NewEnvironment(pamsdk.EnvStaging, "https://pam.staging.internal")
	auth := pamsdk.NewAuthenticator()
	client := pamsdk.NewClient(env, auth, pamsdk.WithAutoRelogin())

	token, err := client.Login(ctx, "jobit11000", "P@ssw0rd123!")
	balance, err := client.GetBalance(ctx, token.UniversalID)

# Authentication State

The Authenticator moves between initial, authenticating, authenticated and
unauthenticated. Subscribe to observe it:

	sub := auth.Subscribe()
	defer sub.Close()

	for state := range sub.C {
		log.Println("auth state:", state)
	}

A new subscription first receives the current state, then every transition in
the order it was applied.

# Single-Flight Refresh

Authenticated calls obtain their session through Authenticator.WithValidToken.
When no session is available, exactly one refresh runs however many callers are
waiting, and they all receive its result. A caller whose context ends stops
waiting without cancelling the refresh for the others.

Without a refresh strategy, an authenticated call with no session fails with
ErrLoginRequired before anything is sent. WithAutoRelogin installs a strategy
that logs in again with the credentials of the last successful Login.

# Error Handling

Request outcomes are reported as *AuthenticationError, one of a closed set of
kinds:

  - KindLoginRequired: HTTP 401; the session is cleared
  - KindInvalidToken: HTTP 403; the session is cleared
  - KindUnknown: any other non-2xx status; the session is kept
  - KindDecodingFailed: a 2xx body did not match the expected type
  - KindTransport: no response was received

Use errors.Is against the predefined values, or the Is* helpers:

	_, err := client.GetBalance(ctx, playerID)
	switch {
	case errors.Is(err, pamsdk.ErrLoginRequired):
		// ask the player to sign in again
	case pamsdk.IsRetryable(err):
		// back off and retry
	}

The Connector does not retry by default. WithReauthPolicy enables a single
retry of a refused call after forcing a new session.

# Transports

Requests go through a Transport. HTTPTransport is the default; wrap it to add
throttling or network retries:

	var t pamsdk.Transport = pamsdk.NewHTTPTransport()
	t = pamsdk.NewRateLimitedTransport(t, 5, 1)
	t = pamsdk.NewRetryTransport(t, 3, 200*time.Millisecond)
	client := pamsdk.NewClient(env, auth, pamsdk.WithTransport(t))

RetryTransport only resends idempotent requests, so login is never repeated.
*/
package pamsdk

// Package common contains shared constants and sentinel errors used across
// authd components.
package common

// AuthHeaderName is the HTTP header used to carry the access token on
// requests to protected endpoints.
const AuthHeaderName = "Authorization"

// AuthScheme is the expected scheme prefix of the Authorization header.
const AuthScheme = "Bearer"

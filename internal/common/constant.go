// Package common contains shared constants and sentinel errors used across
// fitkeeper components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the session
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// DefaultRemoteAddr is the address the client dials and the dev remote
// listens on unless configured otherwise.
const DefaultRemoteAddr = "127.0.0.1:50061"

// Package common contains shared constants and sentinel errors used across
// the outreach server components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on inbound requests.
const AccessTokenHeaderName = "access_token"

// SystemActor is the actor id recorded for automated events (public
// registration, automatic allocation).
const SystemActor = "SYSTEM"

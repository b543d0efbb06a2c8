// Package tlsroots builds the client TLS configuration: the system roots
// plus any extra CA certificates the user trusts, such as the one for a
// self-hosted backend.
package tlsroots

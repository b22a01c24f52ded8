// Package common contains shared constants and sentinel errors used across
// Bronya components.
package common

// SessionKeyLength is the number of random bytes backing a session signing key.
const SessionKeyLength = 32

// TokenNonceLength is the number of random bytes in a token's nonce.
const TokenNonceLength = 8

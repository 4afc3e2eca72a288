// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
)

// ClientIP extracts the client IP address. When trustProxy is set it checks
// X-Forwarded-For (load balancers) and X-Real-IP (nginx) before falling back
// to RemoteAddr. Proxy headers are caller-controlled, so this is only as
// trustworthy as the proxy in front of the process.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		// Check X-Forwarded-For, take first IP in chain
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			for i := 0; i < len(xff); i++ {
				if xff[i] == ',' || xff[i] == ' ' {
					return xff[:i]
				}
			}
			return xff
		}

		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return xri
		}
	}

	// Fall back to RemoteAddr, stripping the port if present
	addr := r.RemoteAddr
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[:i]
		}
	}
	return addr
}

// Hash creates a one-way hash of an IP address for privacy.
// Includes salt to prevent rainbow table attacks.
func Hash(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// First 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}

// FromRequest derives the abuse-tracking identity for a request: the
// apparent client IP, salted and hashed so raw addresses are never stored
// or logged.
func FromRequest(r *http.Request, salt string, trustProxy bool) string {
	return Hash(ClientIP(r, trustProxy), salt)
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package identity derives the abuse-tracking key for a voter from the
request's apparent network origin.

The identity is the salted HMAC-SHA256 hash of the client IP, truncated for
storage. Address-based identity is a coarse heuristic: it is spoofable
behind misconfigured proxies and shared behind NAT. That is an accepted
limitation; the guard treats it as best-effort abuse prevention, not
authentication. Proxy headers (X-Forwarded-For, X-Real-IP) are only honored
when the server is configured to trust them.
*/
package identity

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and response helpers.

# Middleware

  - WithLogging: wraps handlers with request/completion logging
  - CORS: allows cross-origin requests and answers preflights

# Helpers

  - JSONResponse: writes a JSON response with status code
  - ErrorResponse: writes a models.ErrorResponse
  - RateLimitResponse: 429 with Retry-After header and retry_after body field
  - ParseJSONBody: decodes a request body into a struct
*/
package middleware

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the HTTP route table using Go 1.22+ method routing.

# Routes

	GET  /health              liveness check
	POST /polls               create poll (question + >=2 options)
	GET  /polls               list polls with tallies
	GET  /polls/{id}          fetch one poll with tally
	POST /polls/{id}/vote     cast a vote
	GET  /ws                  realtime tally channel (websocket)
	GET  /                    API identifier

All routes go through the CORS middleware; the short-lived ones also get
request logging.
*/
package router

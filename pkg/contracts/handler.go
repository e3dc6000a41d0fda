package contracts

import "github.com/julienschmidt/httprouter"

type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

// StreamHandler is implemented by handlers that hold connections open. Their
// routes are mounted without the request timeout.
type StreamHandler interface {
	RegisterStreamRoutes(*httprouter.Router)
}

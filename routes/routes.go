package routes

import (
	"github.com/gorilla/mux"
	"github.com/zkiln/radmin/radmin"
	"github.com/zkiln/radmin/util/mw"
)

/*
Package routes serves administration requests and the replay catalog over
HTTP:

	POST /admin                      run a JSON request, respond with the result
	GET  /profiles/{class}           list the catalogued profiles of a class
	GET  /profiles/{class}/{profile} the decoded record of one profile
	POST /profiles                   capture the record in the request body
*/

////////////////////////////////////////////////////////////////////////////////

// MakeRoutes returns the router for a replay service.
func MakeRoutes(replay *radmin.ReplayService, allowedOrigins []string, sharedKey string) *mux.Router {
	r := mux.NewRouter()
	r.Use(mw.WithRequestID)
	r.Use(mw.WithCORSAllowedOrigins(allowedOrigins))
	r.Use(mw.WithSharedKeyAuth(sharedKey))
	r.HandleFunc("/admin", newAdminHandler(radmin.NewAdmin(replay))).Methods("POST")
	r.HandleFunc("/profiles", newCaptureHandler(replay)).Methods("POST")
	r.HandleFunc("/profiles/{class}", newListHandler(replay)).Methods("GET")
	r.HandleFunc("/profiles/{class}/{profile}", newProfileHandler(replay)).Methods("GET")
	return r
}

package routes

import (
	"net/http/httptest"
	"testing"

	"github.com/zkiln/radmin/catalog"
	"github.com/zkiln/radmin/radmin"
	"github.com/zkiln/radmin/storage"
)

// MakeTestRoutes serves the routes over an in-memory replay service. It
// returns the replay service, the server URL, and a function that stops the
// server.
func MakeTestRoutes(t *testing.T, sharedKey string) (*radmin.ReplayService, string, func()) {
	t.Helper()
	replay := radmin.NewReplayService(catalog.NewMemCatalog(), storage.NewMemStore())
	srv := httptest.NewServer(MakeRoutes(replay, nil, sharedKey))
	return replay, srv.URL, srv.Close
}

package httputil_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zkiln/radmin/util/httputil"
)

type detailedError struct{}

func (detailedError) Error() string  { return "lookup failed" }
func (detailedError) Detail() string { return "SAF rc 4" }

func TestErrorResponses(t *testing.T) {
	cases := []struct {
		assertion string
		respond   func(w http.ResponseWriter, r *http.Request)
		code      int
		body      string
	}{
		{
			"bad request",
			func(w http.ResponseWriter, r *http.Request) { httputil.BadRequest(r.Context(), w, "bad request") },
			http.StatusBadRequest,
			`{"error":"bad request"}`,
		},
		{
			"not found",
			func(w http.ResponseWriter, r *http.Request) { httputil.NotFound(r.Context(), w, "no profile %s", "BOB1") },
			http.StatusNotFound,
			`{"error":"no profile BOB1"}`,
		},
		{
			"internal server error hides the message",
			func(w http.ResponseWriter, r *http.Request) {
				httputil.InternalServerError(r.Context(), w, "disk on fire")
			},
			http.StatusInternalServerError,
			`{"error":"internal server error"}`,
		},
		{
			"unauthorized",
			func(w http.ResponseWriter, r *http.Request) { httputil.Unauthorized(r.Context(), w, "invalid token") },
			http.StatusUnauthorized,
			`{"error":"invalid token"}`,
		},
		{
			"wrapped detail",
			func(w http.ResponseWriter, r *http.Request) {
				httputil.Error(r.Context(), w, http.StatusBadGateway, fmt.Errorf("call: %w", detailedError{}))
			},
			http.StatusBadGateway,
			`{"error":"call: lookup failed","detail":"SAF rc 4"}`,
		},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "http://example.com/foo", nil)
			recorder := httptest.NewRecorder()
			http.HandlerFunc(c.respond).ServeHTTP(recorder, req)
			require.Equal(t, c.code, recorder.Code)
			require.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
			require.Equal(t, c.body+"\n", recorder.Body.String())
		})
	}
}

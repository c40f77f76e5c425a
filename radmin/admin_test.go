package radmin_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zkiln/radmin/kv"
	"github.com/zkiln/radmin/kvjson"
	"github.com/zkiln/radmin/pxtr"
	"github.com/zkiln/radmin/radmin"
)

type call struct {
	code  radmin.FunctionCode
	parms pxtr.Parms
}

// fakeService records its calls and returns a fixed result.
type fakeService struct {
	calls  []call
	result radmin.Result
	err    error
}

func (f *fakeService) Call(_ context.Context, code radmin.FunctionCode, parms []byte) (radmin.Result, error) {
	p, err := pxtr.ParseParms(parms)
	if err != nil {
		return radmin.Result{}, err
	}
	f.calls = append(f.calls, call{code, p})
	return f.result, f.err
}

func bobRecord(t *testing.T) []byte {
	t.Helper()
	record, err := pxtr.NewBuilder("USER", "BOB1").
		Segment("BASE").
		Char("NAME", "Bob Jones").
		Bool("OWNER", true).
		Build()
	require.NoError(t, err)
	return record
}

const bobJSON = `{
   "class": "USER",
   "profile": "BOB1",
   "base": {
      "name": "Bob Jones",
      "owner": "true"
   }
}
`

func TestAdminRun(t *testing.T) {
	ctx := context.Background()

	t.Run("extract user", func(t *testing.T) {
		service := &fakeService{result: radmin.Result{Record: bobRecord(t)}}
		admin := radmin.NewAdmin(service)
		out, err := admin.Run(ctx, []byte(`{"racf": {"func_type": 25}, "prof_name": "bob1"}`))
		require.NoError(t, err)
		require.Equal(t, bobJSON, string(out))
		require.Equal(t, []call{{
			code: radmin.ExtractUser,
			parms: pxtr.Parms{
				Class:       "USER",
				ProfileName: "BOB1",
				Subpool:     pxtr.DefaultSubpool,
			},
		}}, service.calls)
	})

	t.Run("extract flags", func(t *testing.T) {
		service := &fakeService{result: radmin.Result{Record: bobRecord(t)}}
		admin := radmin.NewAdmin(service, radmin.WithExtractFlags(pxtr.FlagBaseSegmentOnly))
		_, err := admin.Run(ctx, []byte(`{"racf": {"func_type": 25}, "prof_name": "BOB1"}`))
		require.NoError(t, err)
		require.Equal(t, pxtr.FlagBaseSegmentOnly, service.calls[0].parms.Flags)
	})

	t.Run("resource with class", func(t *testing.T) {
		record, err := pxtr.NewBuilder("FACILITY", "BPX.SUPERUSER").
			Segment("BASE").
			Char("UACC", "NONE").
			Build()
		require.NoError(t, err)
		service := &fakeService{result: radmin.Result{Record: record}}
		out, err := radmin.NewAdmin(service).Run(ctx, []byte(
			`{"racf": {"func_type": 31}, "class": "facility", "prof_name": "BPX.SUPERUSER"}`,
		))
		require.NoError(t, err)
		require.Equal(t, "FACILITY", service.calls[0].parms.Class)
		require.Contains(t, string(out), `"uacc": "NONE"`)
	})

	t.Run("escaped profile name", func(t *testing.T) {
		service := &fakeService{result: radmin.Result{Record: bobRecord(t)}}
		_, err := radmin.NewAdmin(service).Run(ctx, []byte(`{"racf": {"func_type": 25}, "prof_name": "b\u004fb1"}`))
		require.NoError(t, err)
		require.Equal(t, "BOB1", service.calls[0].parms.ProfileName)
	})

	t.Run("service status", func(t *testing.T) {
		service := &fakeService{result: radmin.Result{Status: radmin.StatusNotFound}}
		_, err := radmin.NewAdmin(service).Run(ctx, []byte(`{"racf": {"func_type": 25}, "prof_name": "NOBODY"}`))
		var serviceErr radmin.ServiceError
		require.ErrorAs(t, err, &serviceErr)
		require.Equal(t, radmin.StatusNotFound, serviceErr.Status)
		require.Equal(t, radmin.ExtractUser, serviceErr.Code)
	})

	t.Run("service failure", func(t *testing.T) {
		service := &fakeService{err: errors.New("unavailable")}
		_, err := radmin.NewAdmin(service).Run(ctx, []byte(`{"racf": {"func_type": 25}, "prof_name": "BOB1"}`))
		require.ErrorContains(t, err, "unavailable")
	})

	t.Run("malformed result", func(t *testing.T) {
		service := &fakeService{result: radmin.Result{Record: make([]byte, pxtr.HeaderSize)}}
		_, err := radmin.NewAdmin(service).Run(ctx, []byte(`{"racf": {"func_type": 25}, "prof_name": "BOB1"}`))
		require.ErrorIs(t, err, pxtr.ErrBadEyecatcher)
	})

	t.Run("syntax error", func(t *testing.T) {
		_, err := radmin.NewAdmin(&fakeService{}).Run(ctx, []byte(`{"racf": `))
		require.True(t, kvjson.IsSyntaxError(err))
	})
}

func TestAdminRequestErrors(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		assertion string
		request   string
		target    error
	}{
		{"missing racf", `{"prof_name": "BOB1"}`, kv.RequiredKeyMissingError{}},
		{"missing func_type", `{"racf": {}, "prof_name": "BOB1"}`, kv.RequiredKeyMissingError{}},
		{"func_type outside racf", `{"racf": {}, "func_type": 25, "prof_name": "BOB1"}`, kv.RequiredKeyMissingError{}},
		{"func_type nested below racf", `{"racf": {"opts": {"func_type": 25}}, "prof_name": "BOB1"}`, kv.RequiredKeyMissingError{}},
		{"missing prof_name", `{"racf": {"func_type": 25}}`, kv.RequiredKeyMissingError{}},
		{"racf not an object", `{"racf": 25, "prof_name": "BOB1"}`, radmin.InvalidRequestError{}},
		{"func_type string", `{"racf": {"func_type": "25"}, "prof_name": "BOB1"}`, radmin.InvalidRequestError{}},
		{"func_type fraction", `{"racf": {"func_type": 2.5}, "prof_name": "BOB1"}`, radmin.InvalidRequestError{}},
		{"func_type zero", `{"racf": {"func_type": 0}, "prof_name": "BOB1"}`, radmin.UnknownFunctionError{}},
		{"func_type unassigned", `{"racf": {"func_type": 200}, "prof_name": "BOB1"}`, radmin.UnknownFunctionError{}},
		{"prof_name number", `{"racf": {"func_type": 25}, "prof_name": 7}`, radmin.InvalidRequestError{}},
		{"resource without class", `{"racf": {"func_type": 31}, "prof_name": "BPX.SUPERUSER"}`, radmin.InvalidRequestError{}},
		{"update function", `{"racf": {"func_type": 1}, "prof_name": "BOB1"}`, radmin.UnsupportedFunctionError{}},
		{"command function", `{"racf": {"func_type": 5}, "prof_name": "BOB1"}`, radmin.UnsupportedFunctionError{}},
		{"setropts extract", `{"racf": {"func_type": 22}, "prof_name": "BOB1"}`, radmin.UnsupportedFunctionError{}},
		{"profile name too long", `{"racf": {"func_type": 25}, "prof_name": "` + longName(247) + `"}`, pxtr.ProfileNameError{}},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			service := &fakeService{result: radmin.Result{Record: bobRecord(t)}}
			_, err := radmin.NewAdmin(service).Run(ctx, []byte(c.request))
			require.ErrorIs(t, err, c.target)
			require.Empty(t, service.calls)
		})
	}
}

func TestRequestFunction(t *testing.T) {
	tree, err := kvjson.Parse(context.Background(), []byte(`{"racf": {"func_type": 27}}`))
	require.NoError(t, err)
	code, err := radmin.RequestFunction(tree)
	require.NoError(t, err)
	require.Equal(t, radmin.ExtractGroup, code)
}

func longName(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'A'
	}
	return string(b)
}

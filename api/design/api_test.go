package design

import (
	"fmt"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"goa.design/goa/v3/eval"
	"goa.design/goa/v3/expr"

	"xconsultation/internal/server"
)

func TestMain(m *testing.M) {
	if err := eval.RunDSL(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(m.Run())
}

// The hand-written transport in internal/server must serve every route declared here.
func TestDesignMatchesServerRoutes(t *testing.T) {
	require.NotNil(t, expr.Root.API)
	assert.Equal(t, "xconsultation", expr.Root.API.Name)

	routes := map[string]bool{}
	for _, svc := range expr.Root.API.HTTP.Services {
		for _, e := range svc.HTTPEndpoints {
			for _, r := range e.Routes {
				routes[r.Method+" "+r.Path] = true
			}
		}
	}

	assert.Equal(t, map[string]bool{
		http.MethodPost + " " + server.PathSubmitContact:          true,
		http.MethodPost + " " + server.PathSubmitQuickAppointment: true,
		http.MethodPost + " " + server.PathUpdateDateTime:         true,
		http.MethodGet + " " + server.PathListAppointments:        true,
		http.MethodGet + " " + server.PathHealth:                  true,
	}, routes)
}

func TestDesignDeclaresErrorStatuses(t *testing.T) {
	svc := expr.Root.API.HTTP.Service("quick_appointment")
	require.NotNil(t, svc)
	update := svc.Endpoint("update_datetime")
	require.NotNil(t, update)

	statuses := map[string]int{}
	for _, e := range update.HTTPErrors {
		statuses[e.Name] = e.Response.StatusCode
	}
	assert.Equal(t, http.StatusBadRequest, statuses[server.ErrNameBadRequest])
	assert.Equal(t, http.StatusNotFound, statuses[server.ErrNameNotFound])
	assert.Equal(t, http.StatusInternalServerError, statuses[server.ErrNameInternal])
}

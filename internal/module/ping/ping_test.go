package ping

import (
	"net/http"
	"testing"

	"activity-marketplace/test"

	"github.com/stretchr/testify/assert"
)

func TestPing(t *testing.T) {
	test.Setup(t)
	r := test.Engine(&ModulePing{})

	var result map[string]any
	test.NoError(t, test.Do(t, r, http.MethodGet, "/api/ping", "", nil, &result))
	assert.Equal(t, "pong", result["message"])
	assert.Equal(t, "ok", result["database"])
	assert.NotContains(t, result, "redis")
}

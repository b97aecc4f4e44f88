package test

import (
	"testing"

	"activity-marketplace/internal/global/response"

	"github.com/stretchr/testify/require"
)

func ErrorEqual(t *testing.T, expected *response.Error, resp response.ResponseBody) {
	require.Equal(t, expected.Code, resp.Code, resp.Msg)
}

func NoError(t *testing.T, resp response.ResponseBody) {
	require.Equal(t, response.CodeSuccess, resp.Code, resp.Msg)
}

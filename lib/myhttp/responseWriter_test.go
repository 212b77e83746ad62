package myhttp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/shopcart/lib/myerrors"
	"github.com/MarcGrol/shopcart/lib/mylog"
)

func TestResponseWriter(t *testing.T) {
	c := context.TODO()

	t.Run("Write success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		logger := mylog.NewMockLogger(ctrl)
		logger.EXPECT().Log(c, "", mylog.SeverityInfo, gomock.Any(), gomock.Any())

		// when
		response := httptest.NewRecorder()
		NewWriter(logger).Write(c, response, http.StatusCreated, SuccessResponse{Message: "ok"})

		// then
		assert.Equal(t, http.StatusCreated, response.Code)
		assert.Equal(t, "application/json", response.Header().Get("Content-Type"))
		got := SuccessResponse{}
		require.NoError(t, json.Unmarshal(response.Body.Bytes(), &got))
		assert.Equal(t, "ok", got.Message)
	})

	t.Run("Write error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		logger := mylog.NewMockLogger(ctrl)
		logger.EXPECT().Log(c, "", mylog.SeverityWarn, gomock.Any(), gomock.Any())

		// when
		response := httptest.NewRecorder()
		NewWriter(logger).WriteError(c, response, 3, myerrors.NewNotFoundError(fmt.Errorf("product x not found")))

		// then
		assert.Equal(t, http.StatusNotFound, response.Code)
		got := ErrorResponse{}
		require.NoError(t, json.Unmarshal(response.Body.Bytes(), &got))
		assert.Equal(t, 3, got.ErrorCode)
		assert.Equal(t, "status: 404, err: product x not found", got.Message)
	})
}

func TestHostnameWithScheme(t *testing.T) {
	request, err := http.NewRequest(http.MethodGet, "/api/cart", nil)
	require.NoError(t, err)
	request.Host = "localhost:8888"

	assert.Equal(t, "http://localhost:8888", HostnameWithScheme(request))
}

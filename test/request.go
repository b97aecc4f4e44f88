package test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"activity-marketplace/internal/global/middleware"
	"activity-marketplace/internal/global/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// Router 只挂载被测模块的路由
type Router interface {
	InitRouter(r *gin.RouterGroup)
}

func Engine(modules ...Router) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery())
	g := r.Group("/api")
	for _, m := range modules {
		m.InitRouter(g)
	}
	return r
}

// Do 发送 JSON 请求，data 解码到 out（可为 nil）
func Do(t *testing.T, r http.Handler, method, path, token string, body any, out any) response.ResponseBody {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return Serve(t, r, req, out)
}

// Serve 执行请求并解析统一响应体
func Serve(t *testing.T, r http.Handler, req *http.Request, out any) (resp response.ResponseBody) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var raw struct {
		response.ResponseBody
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&raw))
	resp = raw.ResponseBody
	if out != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, out))
	}
	return
}

// DoRequest 直接调用单个 handler
func DoRequest(t *testing.T, handlerFunc gin.HandlerFunc, request any) (resp response.ResponseBody) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	requestBytes, err := json.Marshal(request)
	require.NoError(t, err)
	c.Request = httptest.NewRequest(http.MethodPost, "/test", bytes.NewReader(requestBytes))
	c.Request.Header.Set("Content-Type", "application/json")
	handlerFunc(c)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return
}

// Upload 发送 multipart 请求，文件字段名为 file
func Upload(t *testing.T, r http.Handler, path, token, filename string, content []byte, fields map[string]string, out any) response.ResponseBody {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return Serve(t, r, req, out)
}

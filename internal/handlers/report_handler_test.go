package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"integoreport/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCollectRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/reports/:clientID/collect", NewReportHandler().Collect)
	return r
}

func postCollect(t *testing.T, router *gin.Engine, path, body string, chunked bool) (int, string) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if chunked {
		// 模拟chunked传输：长度未知
		req.ContentLength = -1
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var envelope struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Code, envelope.Message
}

func TestCollectBindsChunkedRequestBody(t *testing.T) {
	router := newCollectRouter()

	// chunked请求体里的窗口覆盖不能被静默忽略：只给start必须报参数错误
	code, message := postCollect(t, router,
		"/api/v1/reports/7/collect", `{"start":"2025-07-01"}`, true)
	assert.Equal(t, errors.CodeInvalidParam, code)
	assert.Contains(t, message, "成对")
}

func TestCollectRejectsInvalidWindow(t *testing.T) {
	router := newCollectRouter()

	code, _ := postCollect(t, router,
		"/api/v1/reports/7/collect", `{"start":"2025-08-01","end":"2025-07-01"}`, false)
	assert.Equal(t, errors.CodeInvalidParam, code)

	code, _ = postCollect(t, router,
		"/api/v1/reports/7/collect", `{"start":"07/01/2025","end":"2025-08-01"}`, false)
	assert.Equal(t, errors.CodeInvalidParam, code)
}

func TestCollectRejectsUnknownKindHint(t *testing.T) {
	router := newCollectRouter()

	code, _ := postCollect(t, router,
		"/api/v1/reports/7/collect", `{"type":"team"}`, false)
	assert.Equal(t, errors.CodeInvalidParam, code)
}

func TestCollectRejectsBadClientID(t *testing.T) {
	router := newCollectRouter()

	code, _ := postCollect(t, router, "/api/v1/reports/abc/collect", ``, false)
	assert.Equal(t, errors.CodeInvalidParam, code)

	code, _ = postCollect(t, router, "/api/v1/reports/0/collect", ``, false)
	assert.Equal(t, errors.CodeInvalidParam, code)
}

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"firstline/internal/middleware"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("CORS", func() {
	var router *gin.Engine

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)

		router = gin.New()
		router.Use(middleware.CORS())
		router.POST("/api/v1/analyze", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"analysis": "ok"})
		})
	})

	It("answers a preflight from any origin", func() {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/analyze", nil)
		req.Header.Set("Origin", "https://firstline.example.com")
		req.Header.Set("Access-Control-Request-Method", "POST")
		req.Header.Set("Access-Control-Request-Headers", "authorization, content-type")

		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		Expect(resp.Code).To(Equal(http.StatusNoContent))
		Expect(resp.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
		Expect(resp.Header().Get("Access-Control-Allow-Methods")).To(ContainSubstring("POST"))

		allowHeaders := strings.ToLower(resp.Header().Get("Access-Control-Allow-Headers"))
		Expect(allowHeaders).To(ContainSubstring("authorization"))
		Expect(allowHeaders).To(ContainSubstring("content-type"))
	})

	It("marks actual responses with the allow-all origin", func() {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", nil)
		req.Header.Set("Origin", "https://firstline.example.com")

		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		Expect(resp.Code).To(Equal(http.StatusOK))
		Expect(resp.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
	})

	It("leaves same-origin requests alone", func() {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", nil)

		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		Expect(resp.Code).To(Equal(http.StatusOK))
		Expect(resp.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
	})
})

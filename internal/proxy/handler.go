package proxy

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"maktub/pkg/config"
	"maktub/pkg/metrics"
)

const defaultUpstreamTimeout = 30 * time.Second

// Handler forwards allow-listed letter API calls to the upstream
// generation service and passes the upstream status and body back
// to the caller.
type Handler struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewHandler(cfg config.UpstreamConfig, logger *zap.Logger) *Handler {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultUpstreamTimeout
	}
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify},
	}
	return &Handler{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		logger: logger,
	}
}

type postRequest struct {
	Endpoint string         `json:"endpoint"`
	Data     map[string]any `json:"data"`
}

// HandlePost serves the JSON write endpoints. Multipart archive uploads
// are detected by content type and re-serialized for the upstream.
func (h *Handler) HandlePost(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		h.handleMultipart(c)
		return
	}

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON in request body"})
		return
	}

	path, ok := postPath(req.Endpoint, req.Data)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endpoint"})
		return
	}

	body, err := json.Marshal(req.Data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON in request body"})
		return
	}

	h.forward(c, req.Endpoint, http.MethodPost, path, "application/json", bytes.NewReader(body))
}

// HandleGet serves the read endpoints. The endpoint name and its
// parameters arrive as query parameters.
func (h *Handler) HandleGet(c *gin.Context) {
	endpoint := c.Query("endpoint")
	q := getQuery{
		Category:       c.Query("category"),
		SessionID:      c.Query("session_id"),
		LetterID:       c.Query("letter_id"),
		Limit:          c.Query("limit"),
		Offset:         c.Query("offset"),
		IncludeExpired: c.Query("include_expired"),
	}
	path, ok := getPath(endpoint, q)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endpoint"})
		return
	}
	h.forward(c, endpoint, http.MethodGet, path, "", nil)
}

func (h *Handler) HandlePut(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON in request body"})
		return
	}
	path, ok := putPath(req.Endpoint)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endpoint"})
		return
	}
	body, err := json.Marshal(req.Data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON in request body"})
		return
	}
	h.forward(c, req.Endpoint, http.MethodPut, path, "application/json", bytes.NewReader(body))
}

func (h *Handler) HandleDelete(c *gin.Context) {
	endpoint := c.Query("endpoint")
	path, ok := deletePath(endpoint, c.Query("session_id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endpoint"})
		return
	}
	h.forward(c, endpoint, http.MethodDelete, path, "", nil)
}

// handleMultipart rebuilds the incoming form for the archive upload,
// dropping the routing field and copying file parts through.
func (h *Handler) handleMultipart(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for field, values := range form.Value {
		if field == "endpoint" {
			continue
		}
		for _, v := range values {
			if err := writer.WriteField(field, v); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
		}
	}
	for field, headers := range form.File {
		for _, header := range headers {
			part, err := writer.CreateFormFile(field, header.Filename)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
			file, err := header.Open()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
			_, copyErr := io.Copy(part, file)
			file.Close()
			if copyErr != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
		}
	}
	if err := writer.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.forward(c, "archive-letter", http.MethodPost, "/api/v1/archive/letter", writer.FormDataContentType(), &buf)
}

// forward performs the upstream call and relays the response. A
// transport failure maps to 500; an upstream error status is passed
// through with the upstream detail wrapped for the caller.
func (h *Handler) forward(c *gin.Context, endpoint, method, path, contentType string, body io.Reader) {
	req, err := http.NewRequestWithContext(c.Request.Context(), method, h.baseURL+path, body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": fmt.Sprintf("Failed to call %s. Please try again later.", endpoint),
		})
		return
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := h.httpClient.Do(req)
	if err != nil {
		metrics.RecordUpstreamCallLatency(endpoint, "transport_error", time.Since(start))
		h.logger.Error("upstream call failed",
			zap.String("endpoint", endpoint),
			zap.String("path", path),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": fmt.Sprintf("Failed to call %s. Please try again later.", endpoint),
		})
		return
	}
	defer resp.Body.Close()

	metrics.RecordUpstreamCallLatency(endpoint, fmt.Sprintf("%d", resp.StatusCode), time.Since(start))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": fmt.Sprintf("Failed to call %s. Please try again later.", endpoint),
		})
		return
	}

	if resp.StatusCode >= 400 {
		h.logger.Warn("upstream error response",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode))
		c.JSON(resp.StatusCode, gin.H{
			"error":   fmt.Sprintf("%s API error", endpoint),
			"message": upstreamDetail(respBody),
		})
		return
	}

	c.Data(resp.StatusCode, "application/json", respBody)
}

// upstreamDetail keeps structured upstream errors structured and falls
// back to the raw body text.
func upstreamDetail(body []byte) any {
	var detail any
	if err := json.Unmarshal(body, &detail); err == nil {
		return detail
	}
	return string(body)
}

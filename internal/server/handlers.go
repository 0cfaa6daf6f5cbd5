package server

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docqa/internal/domain"
	"docqa/internal/extract"
)

const uploadedMessage = "PDF processed successfully!"

type queryRequest struct {
	Question string `json:"question"`
}

type sourceResponse struct {
	Position int     `json:"position"`
	Text     string  `json:"text"`
	Score    float64 `json:"score"`
}

type queryResponse struct {
	Answer  string           `json:"answer"`
	Sources []sourceResponse `json:"sources"`
}

var (
	errNoUpload = errors.New("no file uploaded")
	errTooLarge = errors.New("upload too large")
)

// POST /v1/documents
func (s *Server) uploadDocument(c *gin.Context) {
	name, data, err := s.readUpload(c)
	switch {
	case errors.Is(err, errNoUpload):
		s.fail(c, http.StatusBadRequest, "No file uploaded", err)
		return
	case errors.Is(err, errTooLarge):
		s.fail(c, http.StatusRequestEntityTooLarge, "File too large", err)
		return
	case err != nil:
		s.fail(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	text, err := extract.Text(name, data)
	if err != nil {
		s.metrics.observeIngestion("rejected")
		s.fail(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	n, err := s.svc.Ingest(c.Request.Context(), text)
	if err != nil {
		s.metrics.observeIngestion(outcome(err))
		s.failFor(c, err)
		return
	}
	s.metrics.observeIngestion("ok")
	s.updateIndexMetrics()
	c.JSON(http.StatusOK, gin.H{"message": uploadedMessage, "chunks": n})
}

// POST /v1/query
func (s *Server) query(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, "Invalid JSON", err)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		s.metrics.observeQuery("invalid")
		s.fail(c, http.StatusBadRequest, "No question provided", domain.ErrEmptyQuestion)
		return
	}
	answer, err := s.svc.Query(c.Request.Context(), req.Question)
	if err != nil {
		s.metrics.observeQuery(outcome(err))
		s.failFor(c, err)
		return
	}
	s.metrics.observeQuery("ok")

	resp := queryResponse{Answer: answer.Text, Sources: make([]sourceResponse, 0, len(answer.Sources))}
	for _, src := range answer.Sources {
		resp.Sources = append(resp.Sources, sourceResponse{
			Position: src.Chunk.Position,
			Text:     src.Chunk.Text,
			Score:    src.Score,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// DELETE /v1/documents
func (s *Server) resetIndex(c *gin.Context) {
	s.svc.Reset(c.Request.Context())
	s.updateIndexMetrics()
	c.Status(http.StatusNoContent)
}

// GET /v1/stats
func (s *Server) stats(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.Stats())
}

// legacyPDF serves POST /api/pdf?action=upload|query.
func (s *Server) legacyPDF(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
		return
	}
	switch c.Query("action") {
	case "upload":
		s.uploadDocument(c)
	case "query":
		s.query(c)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
	}
}

// readUpload returns the uploaded file from the "pdf" or "file" multipart
// field, or the raw request body for non-multipart requests.
func (s *Server) readUpload(c *gin.Context) (string, []byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.config.MaxUploadBytes)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("pdf")
		if err != nil {
			fh, err = c.FormFile("file")
		}
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return "", nil, errTooLarge
			}
			return "", nil, errNoUpload
		}
		data, err := readFormFile(fh)
		return fh.Filename, data, err
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", nil, errTooLarge
		}
		return "", nil, err
	}
	if len(data) == 0 {
		return "", nil, errNoUpload
	}
	return "", data, nil
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (s *Server) updateIndexMetrics() {
	st := s.svc.Stats()
	s.metrics.setIndex(st.Chunks, st.Generation)
}

func (s *Server) failFor(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		s.fail(c, http.StatusBadRequest, err.Error(), err)
	case domain.IsCollaborator(err):
		s.fail(c, http.StatusBadGateway, err.Error(), err)
	default:
		s.fail(c, http.StatusInternalServerError, err.Error(), err)
	}
}

// fail answers with {"error": msg} and records err for the request log.
func (s *Server) fail(c *gin.Context, status int, msg string, err error) {
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": msg})
}

func outcome(err error) string {
	switch {
	case domain.IsValidation(err):
		return "invalid"
	case domain.IsCollaborator(err):
		return "collaborator_error"
	default:
		return "error"
	}
}

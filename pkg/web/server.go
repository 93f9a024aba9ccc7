package web

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/grader"
	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/logging"
	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/report"
)

// DefaultMaxUpload caps the size of an uploaded PDF
const DefaultMaxUpload = 10 << 20

const uploadField = "report"

//go:embed templates/*.html
var templateFS embed.FS

var pageTmpl = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"contribution": report.FormatContribution,
	"amount":       report.Amount,
	"join":         strings.Join,
	"gradeColor":   report.GradeColor,
}).ParseFS(templateFS, "templates/index.html"))

// Server serves the upload form and the JSON API. Each request grades its own
// upload; the grader and its rule engine are shared read-only.
type Server struct {
	Grader    *grader.Grader
	Logger    *zap.Logger
	MaxUpload int64
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /analyze", s.handleAnalyzeForm)

	mux.HandleFunc("POST /api/v1/analyze", s.handleAnalyzeAPI)
	mux.HandleFunc("GET /api/v1/rules", s.handleRules)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return withRequestID(logging.Nop(s.Logger), mux)
}

func (s *Server) maxUpload() int64 {
	if s.MaxUpload > 0 {
		return s.MaxUpload
	}
	return DefaultMaxUpload
}

func (s *Server) log() *zap.Logger { return logging.Nop(s.Logger) }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"rule_set":  s.Grader.Engine.Name(),
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	eng := s.Grader.Engine
	writeJSON(w, http.StatusOK, map[string]any{
		"name":           eng.Name(),
		"fields":         eng.Fields(),
		"rules":          eng.Rules(),
		"bands":          eng.Bands(),
		"fallback_grade": eng.FallbackGrade(),
	})
}

// readUpload returns the PDF bytes from a multipart "report" field or, for API
// callers, from a raw application/pdf body
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	limit := s.maxUpload()
	r.Body = http.MaxBytesReader(w, r.Body, limit+1<<20) // room for multipart overhead

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(limit); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return nil, "", errTooLarge
			}
			return nil, "", &inputError{msg: "could not read the uploaded form"}
		}
		file, hdr, err := r.FormFile(uploadField)
		if err != nil {
			return nil, "", errMissingUpload
		}
		defer file.Close()
		data, err := readLimited(file, limit)
		return data, hdr.Filename, err
	}

	data, err := readLimited(r.Body, limit)
	if err == nil && len(data) == 0 {
		err = errMissingUpload
	}
	return data, "upload.pdf", err
}

var (
	errMissingUpload = errors.New("no PDF uploaded, attach it as the \"report\" field")
	errTooLarge      = errors.New("the uploaded file is too large")
)

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, errTooLarge
	}
	return data, nil
}

// parseAsOf reads an optional YYYY-MM-DD reference date
func parseAsOf(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, errors.New("as_of must be a date in YYYY-MM-DD form")
	}
	return t, nil
}

// classify maps an error to a status code and a message safe to show
func (s *Server) classify(r *http.Request, err error) (int, string) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, errTooLarge), errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge, errTooLarge.Error()
	case errors.Is(err, errMissingUpload):
		return http.StatusBadRequest, err.Error()
	}
	var inErr *inputError
	if errors.As(err, &inErr) {
		return http.StatusBadRequest, inErr.msg
	}

	msg, expected := report.UserMessage(err)
	if !expected {
		s.log().Error("analysis failed", zap.String("request_id", requestID(r.Context())), zap.Error(err))
		return http.StatusInternalServerError, msg
	}
	s.log().Info("analysis rejected", zap.String("request_id", requestID(r.Context())), zap.Error(err))
	return http.StatusUnprocessableEntity, msg
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	writeJSON(w, code, map[string]string{
		"error":      msg,
		"request_id": requestID(r.Context()),
	})
}

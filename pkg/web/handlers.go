package web

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/creditreport"
	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/grader"
	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type pageData struct {
	RequestID   string
	Error       string
	MaxUploadMB int64
	Report      *grader.Report
	GradeColor  string
	GradeLabel  string
	ScoreColor  string
	Score       string
	Sections    []section
}

type section struct {
	Title    string
	Accounts []creditreport.Account
}

func (s *Server) page(r *http.Request) pageData {
	return pageData{
		RequestID:   requestID(r.Context()),
		MaxUploadMB: s.maxUpload() >> 20,
	}
}

func (s *Server) render(w http.ResponseWriter, code int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := pageTmpl.Execute(w, data); err != nil {
		s.log().Error("render page", zap.Error(err))
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, s.page(r))
}

func (s *Server) handleAnalyzeForm(w http.ResponseWriter, r *http.Request) {
	data := s.page(r)

	rep, err := s.analyze(w, r)
	if err != nil {
		code, msg := s.classify(r, err)
		data.Error = msg
		s.render(w, code, data)
		return
	}

	data.Report = rep
	data.GradeColor = report.GradeColor(rep.Result.Grade)
	data.GradeLabel = report.GradeLabel(rep.Result.Grade)
	data.ScoreColor = report.ScoreColor(rep.Result.Score)
	data.Score = report.FormatScore(rep.Result.Score)
	data.Sections = []section{
		{"Accepted", rep.Analysis.ByStatus(creditreport.Accepted)},
		{"Rejected", rep.Analysis.ByStatus(creditreport.Rejected)},
		{"Skipped", rep.Analysis.ByStatus(creditreport.Skipped)},
	}
	s.render(w, http.StatusOK, data)
}

func (s *Server) handleAnalyzeAPI(w http.ResponseWriter, r *http.Request) {
	rep, err := s.analyze(w, r)
	if err != nil {
		code, msg := s.classify(r, err)
		s.writeError(w, r, code, msg)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		writeJSON(w, http.StatusOK, rep)
	case "xlsx":
		data, err := report.XLSX(rep)
		if err != nil {
			code, msg := s.classify(r, err)
			s.writeError(w, r, code, msg)
			return
		}
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="credit-report-`+rep.ID+`.xlsx"`)
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		_, _ = w.Write(data)
	default:
		s.writeError(w, r, http.StatusBadRequest, "format must be json or xlsx")
	}
}

// analyze reads the upload and the optional as_of value and grades the PDF
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) (*grader.Report, error) {
	data, name, err := s.readUpload(w, r)
	if err != nil {
		return nil, err
	}
	// FormValue covers both the multipart form and the query string
	asOf, err := parseAsOf(r.FormValue("as_of"))
	if err != nil {
		return nil, &inputError{msg: err.Error()}
	}
	return s.Grader.GradeBytes(r.Context(), name, data, asOf)
}

type inputError struct{ msg string }

func (e *inputError) Error() string { return e.msg }

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/cv-ats/internal/ats"
	"github.com/jonathan/cv-ats/internal/ingestion"
	"github.com/jonathan/cv-ats/internal/jobsignal"
	"github.com/jonathan/cv-ats/internal/pipeline"
	"github.com/jonathan/cv-ats/internal/rendering"
	"github.com/jonathan/cv-ats/internal/types"
)

const (
	// multipartOverhead is allowed on top of the document size for form
	// boundaries and the other fields.
	multipartOverhead = 1 << 20
	multipartMemory   = 32 << 20
)

// JobRequest describes the target job. Explicit lists and a posting may be
// combined; explicit entries come first.
type JobRequest struct {
	Requirements []string `json:"requirements,omitempty" validate:"max=100,dive,max=500"`
	Keywords     []string `json:"keywords,omitempty" validate:"max=200,dive,max=100"`
	Posting      string   `json:"posting,omitempty"`
	PostingHTML  string   `json:"posting_html,omitempty"`
	SourceURL    string   `json:"source_url,omitempty" validate:"omitempty,url"`
}

// ParseRequest represents the request body for /parse. Empty text is valid
// and yields an empty CV.
type ParseRequest struct {
	Text string `json:"text"`
}

// ScoreRequest represents the request body for /score and /analyze. Empty
// text scores 0 on /score; /analyze answers it with 422.
type ScoreRequest struct {
	Text     string     `json:"text"`
	Industry string     `json:"industry,omitempty" validate:"max=64"`
	Job      JobRequest `json:"job"`
}

// TailorRequest represents the request body for /tailor. A parsed CV takes
// precedence over raw text.
type TailorRequest struct {
	CV   *types.ParsedCV `json:"cv,omitempty"`
	Text string          `json:"text,omitempty" validate:"required_without=CV"`
	Job  JobRequest      `json:"job"`
}

// TailorResponse represents the response for /tailor
type TailorResponse struct {
	Tailored *types.TailoredCV `json:"tailored"`
	Source   string            `json:"source"`
	Text     string            `json:"text"`
}

// IndustriesResponse represents the response for /industries
type IndustriesResponse struct {
	Default    string   `json:"default"`
	Industries []string `json:"industries"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIndustries(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, IndustriesResponse{
		Default:    s.dict.DefaultIndustry,
		Industries: s.dict.IndustryNames(),
	})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.orchestrator.Parser.Parse(ingestion.CleanText(req.Text)))
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	job, err := s.resolveJob(r.Context(), req.Job)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result := s.orchestrator.Scorer.Score(ingestion.CleanText(req.Text), ats.Options{
		JobSignal: job,
		Industry:  s.industryOr(req.Industry),
	})
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleTailor(w http.ResponseWriter, r *http.Request) {
	var req TailorRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	job, err := s.resolveJob(r.Context(), req.Job)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cv := req.CV
	if cv == nil {
		cv = s.orchestrator.Parser.Parse(ingestion.CleanText(req.Text))
	} else {
		cv = cv.Clone()
	}

	tailored, source := s.orchestrator.Tailor(r.Context(), cv, job)
	s.jsonResponse(w, http.StatusOK, TailorResponse{
		Tailored: tailored,
		Source:   source,
		Text:     rendering.PlainText(&tailored.ParsedCV),
	})
}

func (s *Server) handleJobSignal(w http.ResponseWriter, r *http.Request) {
	var req JobRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	job, err := s.resolveJob(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

// handleAnalyze runs the full pipeline on JSON text or a multipart upload
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, err := s.analyzeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.orchestrator.Run(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleAnalyzeStream runs the full pipeline and streams progress via SSE
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	req, err := s.analyzeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	req.OnProgress = func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent("step", event); err != nil {
			s.logger.Warn("failed to write SSE event", zap.Error(err), zap.String("step", event.Step))
		}
	}

	result, err := s.orchestrator.Run(r.Context(), req)
	if err != nil {
		status := HTTPStatus(err)
		message := err.Error()
		if status >= http.StatusInternalServerError {
			s.logger.Error("streaming analysis failed", zap.Error(err))
			message = http.StatusText(status)
		}
		sse.WriteError(status, message)
		return
	}

	if err := sse.WriteEvent("result", result); err != nil {
		s.logger.Warn("failed to write SSE result", zap.Error(err))
		return
	}
	sse.WriteComplete(result.ID, "completed")
}

// decode reads a size-limited JSON body into v and validates it.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return &ErrValidation{Message: "invalid request body: " + err.Error()}
	}
	if err := s.validate.Struct(v); err != nil {
		return validationError(err)
	}
	return nil
}

func (s *Server) analyzeRequest(w http.ResponseWriter, r *http.Request) (pipeline.Request, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return s.multipartRequest(w, r)
	}

	var req ScoreRequest
	if err := s.decode(w, r, &req); err != nil {
		return pipeline.Request{}, err
	}
	job, err := s.resolveJob(r.Context(), req.Job)
	if err != nil {
		return pipeline.Request{}, err
	}
	return pipeline.Request{
		Text:     req.Text,
		Job:      job,
		Industry: s.industryOr(req.Industry),
	}, nil
}

// multipartRequest reads an upload with the fields file, format, text,
// industry and job (a JSON-encoded JobRequest).
func (s *Server) multipartRequest(w http.ResponseWriter, r *http.Request) (pipeline.Request, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return pipeline.Request{}, err
		}
		return pipeline.Request{}, &ErrValidation{Message: "invalid multipart form: " + err.Error()}
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	var jobReq JobRequest
	if raw := r.FormValue("job"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &jobReq); err != nil {
			return pipeline.Request{}, &ErrValidation{Field: "job", Message: "invalid JSON: " + err.Error()}
		}
		if err := s.validate.Struct(jobReq); err != nil {
			return pipeline.Request{}, validationError(err)
		}
	}
	job, err := s.resolveJob(r.Context(), jobReq)
	if err != nil {
		return pipeline.Request{}, err
	}

	req := pipeline.Request{
		Job:      job,
		Industry: s.industryOr(r.FormValue("industry")),
	}
	if raw := r.FormValue("format"); raw != "" {
		format, err := ingestion.ParseFormat(raw)
		if err != nil {
			return pipeline.Request{}, err
		}
		req.Format = format
	}

	file, header, err := r.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		req.Text = r.FormValue("text")
		if strings.TrimSpace(req.Text) == "" {
			return pipeline.Request{}, &ErrValidation{Field: "file", Message: "is required"}
		}
		return req, nil
	case err != nil:
		return pipeline.Request{}, &ErrValidation{Field: "file", Message: err.Error()}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return pipeline.Request{}, fmt.Errorf("failed to read upload: %w", err)
	}
	req.Document = data
	req.Filename = header.Filename
	return req, nil
}

// resolveJob turns a JobRequest into a JobSignal.
func (s *Server) resolveJob(ctx context.Context, req JobRequest) (types.JobSignal, error) {
	return s.jobs.Resolve(ctx, jobsignal.Request{
		Requirements: req.Requirements,
		Keywords:     req.Keywords,
		Posting:      req.Posting,
		PostingHTML:  req.PostingHTML,
		SourceURL:    req.SourceURL,
	})
}

func (s *Server) industryOr(industry string) string {
	industry = strings.ToLower(strings.TrimSpace(industry))
	if industry == "" {
		return s.industry
	}
	return industry
}

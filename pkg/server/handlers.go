package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/matzehuels/readability/pkg/buildinfo"
	"github.com/matzehuels/readability/pkg/drawing"
	"github.com/matzehuels/readability/pkg/errors"
	"github.com/matzehuels/readability/pkg/observability"
	"github.com/matzehuels/readability/pkg/pipeline"
)

// ScoreResponse is the body of a successful score request.
type ScoreResponse struct {
	*pipeline.Result

	// Drawing is the laid out drawing, returned for DOT input only.
	Drawing *drawing.Drawing `json:"drawing,omitempty"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error     errorDetail `json:"error"`
	RequestID string      `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.Format == "" {
		opts.Format = formatFromContentType(r.Header.Get("Content-Type"))
	}
	if f, _ := drawing.ParseFormat(opts.Format); f == drawing.FormatDOT {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "post DOT graphs to /v1/score/dot"))
		return
	}
	s.score(w, r, opts)
}

func (s *Server) handleScoreDOT(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Format = string(drawing.FormatDOT)
	s.score(w, r, opts)
}

func (s *Server) score(w http.ResponseWriter, r *http.Request, opts pipeline.Options) {
	src, err := pipeline.ReadSource(r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), src, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := ScoreResponse{Result: res}
	if opts.Format == string(drawing.FormatDOT) {
		resp.Drawing = res.Drawing
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	src, err := pipeline.ReadSource(r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	d, err := s.runner.Layout(r.Context(), src, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// options overlays query parameters on the server defaults.
func (s *Server) options(r *http.Request) (pipeline.Options, error) {
	opts := s.defaults
	q := r.URL.Query()

	if v := q.Get("format"); v != "" {
		opts.Format = v
	}
	if v := q.Get("engine"); v != "" {
		opts.Engine = v
	}
	if v := q.Get("divisor"); v != "" {
		opts.Divisor = v
	}
	if v := q.Get("ideal_angle"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidOption, "ideal_angle must be a number, got %q", v)
		}
		opts.IdealAngle = f
	}
	for name, dst := range map[string]*bool{"clamp": &opts.Clamp, "refresh": &opts.Refresh} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidOption, "%s must be a boolean, got %q", name, v)
		}
		*dst = b
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func formatFromContentType(ct string) string {
	ct, _, _ = strings.Cut(ct, ";")
	switch strings.TrimSpace(ct) {
	case "application/yaml", "application/x-yaml", "text/yaml":
		return string(drawing.FormatYAML)
	case "text/vnd.graphviz":
		return string(drawing.FormatDOT)
	}
	return string(drawing.FormatJSON)
}

// StatusFor maps an error to an HTTP status by its code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrCodeInvalidInput),
		errors.Is(err, errors.ErrCodeInvalidFormat),
		errors.Is(err, errors.ErrCodeInvalidOption),
		errors.Is(err, errors.ErrCodeInvalidPath):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeEndpointNotFound),
		errors.Is(err, errors.ErrCodeLayoutFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errors.ErrCodeNotFound),
		errors.Is(err, errors.ErrCodeFileNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusUnsupportedMediaType
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case stderrors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)

	code := string(errors.GetCode(err))
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "err", err)
		if code == "" {
			code = string(errors.ErrCodeInternal)
		}
		msg = "internal error"
	} else if code == "" {
		code = string(errors.ErrCodeInvalidInput)
	}
	writeJSON(w, status, errorBody(r, code, msg))
}

func errorBody(r *http.Request, code, msg string) errorResponse {
	return errorResponse{
		Error:     errorDetail{Code: code, Message: msg},
		RequestID: RequestID(r.Context()),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

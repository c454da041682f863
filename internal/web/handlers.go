package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/lotuschain/gnome-ext-builder/internal/core"
)

// BusyMessage is returned while another generation is in flight.
const BusyMessage = "A generation is already in progress. Please wait."

// Reasons for failures detected before the pipeline runs.
const (
	ReasonEmptyInput core.Reason = "empty-input"
	ReasonBusy       core.Reason = "busy"
	ReasonBadRequest core.Reason = "bad-request"
)

const maxBodyBytes = 64 << 10

// StatusFor maps a failure reason to its HTTP status.
func StatusFor(reason core.Reason) int {
	switch reason {
	case ReasonEmptyInput, ReasonBadRequest:
		return http.StatusBadRequest
	case ReasonBusy:
		return http.StatusConflict
	case core.ReasonInvalidCredential:
		return http.StatusUnauthorized
	case core.ReasonQuotaExceeded:
		return http.StatusTooManyRequests
	case core.ReasonMalformedResponse:
		return http.StatusBadGateway
	case core.ReasonMissingCredential:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// failure is a user-facing error with its reason.
type failure struct {
	Reason  core.Reason `json:"reason"`
	Message string      `json:"message"`
}

type generateRequest struct {
	Description string `json:"description"`
}

type generateResponse struct {
	*core.ArtifactPair
	Metadata *core.ExtensionMetadata `json:"metadata,omitempty"`
}

type errorResponse struct {
	Error failure `json:"error"`
}

// pageData feeds templates/index.html.
type pageData struct {
	Description string
	Model       string
	Provider    string
	Result      *resultView
	Error       *failure
}

type resultView struct {
	ExtensionJS  string
	MetadataJSON string
	Name         string
	UUID         string
	HasUUID      bool
}

// run executes one generation, enforcing the single in-flight rule.
func (s *Server) run(r *http.Request, description string) (*core.ArtifactPair, *failure) {
	if strings.TrimSpace(description) == "" {
		return nil, &failure{Reason: ReasonEmptyInput, Message: core.EmptyDescriptionMessage}
	}
	if !s.busy.CompareAndSwap(false, true) {
		return nil, &failure{Reason: ReasonBusy, Message: BusyMessage}
	}
	defer s.busy.Store(false)

	logger := s.requestLogger(r)
	pair, err := s.gen.Generate(r.Context(), description)
	if err != nil {
		var ce *core.ClassifiedError
		if !errors.As(err, &ce) {
			ce = core.Classify(err, s.gen.Provider(), core.SubstringClassifier)
		}
		logger.Warn("generation failed", zap.String("reason", string(ce.Reason)))
		return nil, &failure{Reason: ce.Reason, Message: ce.Message}
	}
	logger.Info("generation succeeded",
		zap.Int("extension_bytes", len(pair.ExtensionJS)),
		zap.Int("metadata_bytes", len(pair.MetadataJSON)))
	return pair, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, s.newPage(""))
}

func (s *Server) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		data := s.newPage("")
		data.Error = &failure{Reason: ReasonBadRequest, Message: "Could not read the submitted form."}
		s.render(w, r, http.StatusBadRequest, data)
		return
	}

	description := r.PostFormValue("description")
	data := s.newPage(description)
	pair, fail := s.run(r, description)
	if fail != nil {
		data.Error = fail
		s.render(w, r, StatusFor(fail.Reason), data)
		return
	}
	data.Result = newResultView(pair)
	s.render(w, r, http.StatusOK, data)
}

func (s *Server) handleAPIGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: failure{
			Reason:  ReasonBadRequest,
			Message: "Request body must be JSON with a description field.",
		}})
		return
	}

	pair, fail := s.run(r, req.Description)
	if fail != nil {
		writeJSON(w, StatusFor(fail.Reason), errorResponse{Error: *fail})
		return
	}

	resp := generateResponse{ArtifactPair: pair}
	if meta, err := core.ParseMetadata(pair.MetadataJSON); err == nil {
		resp.Metadata = meta
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"provider":   s.provider,
		"model":      s.model,
		"credential": s.credential,
	})
}

func (s *Server) newPage(description string) pageData {
	return pageData{
		Description: description,
		Model:       s.model,
		Provider:    s.gen.Provider().Label,
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.page.Execute(w, data); err != nil {
		s.requestLogger(r).Error("failed to render page", zap.Error(err))
	}
}

func newResultView(pair *core.ArtifactPair) *resultView {
	view := &resultView{
		ExtensionJS:  pair.ExtensionJS,
		MetadataJSON: pair.MetadataJSON,
		UUID:         core.InstallUUID(pair.MetadataJSON),
	}
	view.HasUUID = view.UUID != core.UUIDPlaceholder
	if meta, err := core.ParseMetadata(pair.MetadataJSON); err == nil {
		view.Name = meta.Name
	}
	return view
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

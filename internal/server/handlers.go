package server

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"studymap/internal/diagram"
	"studymap/internal/history"
	"studymap/internal/latex"
	"studymap/internal/llm"
	"studymap/internal/plan"
)

// Handler wires the HTTP surface to the tutor, the history store, and the
// LaTeX compiler.
type Handler struct {
	tutor    llm.Tutor
	store    history.Store
	compiler *latex.Compiler
	logger   *zap.Logger
	sessions *sessionRegistry
	validate *validator.Validate

	// useLLMDiagram asks the model for the SVG first and falls back to the
	// local renderer; false renders locally only.
	useLLMDiagram bool
}

func NewHandler(tutor llm.Tutor, store history.Store, compiler *latex.Compiler, logger *zap.Logger, useLLMDiagram bool) *Handler {
	return &Handler{
		tutor:         tutor,
		store:         store,
		compiler:      compiler,
		logger:        logger,
		sessions:      newSessionRegistry(),
		validate:      validator.New(),
		useLLMDiagram: useLLMDiagram,
	}
}

type createTopicRequest struct {
	Topic string `json:"topic" validate:"required,min=1,max=500"`
}

type createTopicResponse struct {
	SessionID string   `json:"session_id"`
	Stage     string   `json:"stage"`
	Questions []string `json:"questions"`
}

// CreateTopic handles POST /api/topics.
func (h *Handler) CreateTopic(w http.ResponseWriter, r *http.Request) {
	var req createTopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "validation error: "+err.Error())
		return
	}

	questions, err := h.tutor.GenerateQuestions(r.Context(), req.Topic)
	if err != nil {
		h.respondLLMError(w, "generate questions", err)
		return
	}

	s := h.sessions.create(req.Topic, questions)

	h.respondJSON(w, http.StatusCreated, createTopicResponse{
		SessionID: s.ID,
		Stage:     StageQuestioning.String(),
		Questions: questions,
	})
}

type submitAnswersRequest struct {
	Answers []string `json:"answers" validate:"required,min=1,dive,max=2000"`
}

type submitAnswersResponse struct {
	SessionID       string `json:"session_id"`
	Stage           string `json:"stage"`
	Plan            string `json:"learning_plan"`
	SVG             string `json:"svg_content"`
	EntryID         string `json:"entry_id"`
	DiagramFallback bool   `json:"diagram_fallback,omitempty"`
}

// SubmitAnswers handles POST /api/sessions/{sessionID}/answers. It runs the
// second half of the flow: plan generation, diagram rendering, and history
// persistence.
func (h *Handler) SubmitAnswers(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	s, ok := h.sessions.get(sessionID)
	if !ok {
		h.respondError(w, http.StatusNotFound, "unknown session")
		return
	}
	if s.Stage != StageQuestioning {
		h.respondError(w, http.StatusConflict, "session is not waiting for answers (stage "+s.Stage.String()+")")
		return
	}

	var req submitAnswersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "validation error: "+err.Error())
		return
	}
	if len(req.Answers) != len(s.Questions) {
		h.respondError(w, http.StatusBadRequest, "expected one answer per question")
		return
	}

	// Section count is a best-effort hint; a failed count never blocks the
	// plan, the model just picks its own structure.
	sections, err := h.tutor.CountTopics(r.Context(), s.Topic)
	if err != nil {
		h.logger.Warn("topic count failed, letting the model choose",
			zap.String("kind", string(llm.KindOf(err))),
			zap.Error(err),
		)
		sections = 0
	}

	planText, err := h.tutor.GeneratePlan(r.Context(), s.Topic, s.Questions, req.Answers, sections)
	if err != nil {
		h.respondLLMError(w, "generate plan", err)
		return
	}

	svg, fallback := h.renderDiagram(r, planText)

	entry, err := h.store.Append(r.Context(), s.Topic, planText, svg)
	if err != nil {
		h.logger.Error("failed to persist history entry", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to persist history")
		return
	}

	h.sessions.update(sessionID, func(s *Session) {
		s.Stage = StageDisplay
		s.Answers = req.Answers
		s.Plan = planText
		s.SVG = svg
		s.EntryID = entry.ID
	})

	h.respondJSON(w, http.StatusOK, submitAnswersResponse{
		SessionID:       sessionID,
		Stage:           StageDisplay.String(),
		Plan:            planText,
		SVG:             svg,
		EntryID:         entry.ID,
		DiagramFallback: fallback,
	})
}

// renderDiagram produces the SVG for a plan. The LLM path is best-effort:
// any failure falls back to the deterministic local renderer, which cannot
// fail, so the user always gets a diagram.
func (h *Handler) renderDiagram(r *http.Request, planText string) (svg string, fallback bool) {
	graph := plan.Convert(planText)
	if !h.useLLMDiagram {
		return diagram.Render(graph), false
	}

	svg, err := h.tutor.GenerateDiagram(r.Context(), planText)
	if err != nil {
		h.logger.Warn("llm diagram generation failed, rendering locally",
			zap.String("kind", string(llm.KindOf(err))),
			zap.Error(err),
		)
		return diagram.Render(graph), true
	}
	return svg, false
}

type sessionResponse struct {
	SessionID string   `json:"session_id"`
	Stage     string   `json:"stage"`
	Topic     string   `json:"topic"`
	Questions []string `json:"questions,omitempty"`
	Answers   []string `json:"answers,omitempty"`
	Plan      string   `json:"learning_plan,omitempty"`
	SVG       string   `json:"svg_content,omitempty"`
	EntryID   string   `json:"entry_id,omitempty"`
}

// GetSession handles GET /api/sessions/{sessionID}.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessions.get(chi.URLParam(r, "sessionID"))
	if !ok {
		h.respondError(w, http.StatusNotFound, "unknown session")
		return
	}
	h.respondJSON(w, http.StatusOK, sessionResponse{
		SessionID: s.ID,
		Stage:     s.Stage.String(),
		Topic:     s.Topic,
		Questions: s.Questions,
		Answers:   s.Answers,
		Plan:      s.Plan,
		SVG:       s.SVG,
		EntryID:   s.EntryID,
	})
}

type historyResponse struct {
	Topics []history.Entry `json:"topics"`
}

// ListHistory handles GET /api/history.
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.Load(r.Context())
	if err != nil {
		h.logger.Error("failed to load history", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	h.respondJSON(w, http.StatusOK, historyResponse{Topics: entries})
}

// GetHistoryEntry handles GET /api/history/{entryID}.
func (h *Handler) GetHistoryEntry(w http.ResponseWriter, r *http.Request) {
	entry, ok, err := h.store.Get(r.Context(), chi.URLParam(r, "entryID"))
	if err != nil {
		h.logger.Error("failed to read history entry", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to read history")
		return
	}
	if !ok {
		h.respondError(w, http.StatusNotFound, "unknown history entry")
		return
	}
	h.respondJSON(w, http.StatusOK, entry)
}

// GetHistorySVG handles GET /api/history/{entryID}/svg and serves the stored
// diagram as an image so the front-end can embed it directly.
func (h *Handler) GetHistorySVG(w http.ResponseWriter, r *http.Request) {
	entry, ok, err := h.store.Get(r.Context(), chi.URLParam(r, "entryID"))
	if err != nil {
		h.logger.Error("failed to read history entry", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to read history")
		return
	}
	if !ok || entry.SVG == "" {
		h.respondError(w, http.StatusNotFound, "no diagram for this entry")
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(entry.SVG))
}

type latexRequest struct {
	ImageBase64 string `json:"image_base64" validate:"required,base64"`
	ImageType   string `json:"image_type" validate:"required,oneof=png jpeg jpg"`
	Compile     bool   `json:"compile"`
}

type latexResponse struct {
	Latex        string `json:"latex"`
	PDFBase64    string `json:"pdf_base64,omitempty"`
	CompileError string `json:"compile_error,omitempty"`
}

// TranscribeLatex handles POST /api/latex: image in, align block out, with an
// optional PDF render. A compile failure is reported in the response rather
// than failing the request, since the transcription itself succeeded.
func (h *Handler) TranscribeLatex(w http.ResponseWriter, r *http.Request) {
	var req latexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "validation error: "+err.Error())
		return
	}

	block, err := h.tutor.GenerateLatex(r.Context(), req.ImageBase64, req.ImageType)
	if err != nil {
		h.respondLLMError(w, "transcribe latex", err)
		return
	}

	resp := latexResponse{Latex: block}
	if req.Compile {
		pdf, err := h.compiler.Compile(r.Context(), latex.WrapDocument(block))
		if err != nil {
			h.logger.Warn("latex compilation failed", zap.Error(err))
			resp.CompileError = err.Error()
		} else {
			resp.PDFBase64 = base64.StdEncoding.EncodeToString(pdf)
		}
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, errorResponse{Error: message})
}

// respondLLMError maps tutor failures to 502 and carries the error kind so
// the front-end can tell "model unreachable" from "model said nonsense".
func (h *Handler) respondLLMError(w http.ResponseWriter, op string, err error) {
	kind := llm.KindOf(err)
	h.logger.Error("tutor call failed",
		zap.String("op", op),
		zap.String("kind", string(kind)),
		zap.Error(err),
	)
	h.respondJSON(w, http.StatusBadGateway, errorResponse{
		Error: op + " failed",
		Kind:  string(kind),
	})
}

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	appanalysis "github.com/bryanwahyu/contract-compliance/internal/application/analysis"
	domain "github.com/bryanwahyu/contract-compliance/internal/domain/analysis"
	"github.com/bryanwahyu/contract-compliance/internal/middleware"
)

type Router struct {
	svc      AnalysisService
	uploads  UploadStore
	maxBytes int64
	log      *zap.Logger
}

// AnalysisService is the use-case surface the HTTP layer consumes.
type AnalysisService interface {
	Analyze(ctx context.Context, filePath, fileName string, regulations []domain.Regulation) (*domain.AnalysisReport, error)
	AnalyzeBatch(ctx context.Context, docs []appanalysis.BatchDocument, regulations []domain.Regulation) []appanalysis.BatchItem
}

// UploadStore persists uploads for the duration of one request.
type UploadStore interface {
	SaveUpload(r io.Reader, originalName string) (string, error)
	Remove(path string) error
}

func NewRouter(svc AnalysisService, uploads UploadStore, maxBytes int64, log *zap.Logger) http.Handler {
	r := &Router{svc: svc, uploads: uploads, maxBytes: maxBytes, log: log}
	mux := chi.NewRouter()

	mux.Route("/api/v1/contracts", func(rt chi.Router) {
		rt.Post("/analyze", r.wrap(r.handleAnalyze))
		rt.Post("/analyze-batch", r.wrap(r.handleAnalyzeBatch))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			r.log.Error("request failed", zap.String("path", req.URL.Path), zap.Error(err))
			if errors.Is(err, domain.ErrValidation) {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			writeError(w, http.StatusInternalServerError, err)
		}
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": err.Error()})
}

// POST /api/v1/contracts/analyze
// Multipart body: "file" + one or more "regulations" values.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	req.Body = http.MaxBytesReader(w, req.Body, r.maxBytes)
	if err := req.ParseMultipartForm(r.maxBytes); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	regulations, err := regulationsFromForm(req)
	if err != nil {
		return err
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		return fmt.Errorf("%w: file is required", domain.ErrValidation)
	}
	defer file.Close()

	name, err := validatedName(header)
	if err != nil {
		return err
	}

	path, err := r.uploads.SaveUpload(file, name)
	if err != nil {
		return err
	}
	defer r.uploads.Remove(path)

	middleware.IncrementAnalyses()
	middleware.IncrementAnalysesRunning()
	defer middleware.DecrementAnalysesRunning()

	report, err := r.svc.Analyze(req.Context(), path, name, regulations)
	if err != nil {
		middleware.IncrementAnalysesFailed()
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(report)
}

// POST /api/v1/contracts/analyze-batch
// Multipart body: one or more "files" + "regulations" values. Documents
// that fail individually come back as error items; the batch still
// completes.
func (r *Router) handleAnalyzeBatch(w http.ResponseWriter, req *http.Request) error {
	req.Body = http.MaxBytesReader(w, req.Body, r.maxBytes)
	if err := req.ParseMultipartForm(r.maxBytes); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	regulations, err := regulationsFromForm(req)
	if err != nil {
		return err
	}

	headers := req.MultipartForm.File["files"]
	if len(headers) == 0 {
		return fmt.Errorf("%w: at least one file is required", domain.ErrValidation)
	}

	var docs []appanalysis.BatchDocument
	var paths []string
	defer func() {
		for _, p := range paths {
			r.uploads.Remove(p)
		}
	}()
	for _, header := range headers {
		name, err := validatedName(header)
		if err != nil {
			return err
		}
		path, err := saveHeader(r.uploads, header, name)
		if err != nil {
			return err
		}
		paths = append(paths, path)
		docs = append(docs, appanalysis.BatchDocument{Path: path, Name: name})
	}

	middleware.IncrementAnalyses()
	middleware.IncrementAnalysesRunning()
	defer middleware.DecrementAnalysesRunning()

	items := r.svc.AnalyzeBatch(req.Context(), docs, regulations)
	for _, item := range items {
		if item.Error != "" {
			middleware.IncrementAnalysesFailed()
		}
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(items)
}

func validatedName(header *multipart.FileHeader) (string, error) {
	name := middleware.SanitizeFileName(header.Filename)
	if err := middleware.ValidateFileExtension(name); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return name, nil
}

func saveHeader(uploads UploadStore, header *multipart.FileHeader, name string) (string, error) {
	f, err := header.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return uploads.SaveUpload(f, name)
}

// regulationsFromForm accepts repeated "regulations" values as well as a
// single comma-separated value.
func regulationsFromForm(req *http.Request) ([]domain.Regulation, error) {
	var raw []string
	for _, value := range req.Form["regulations"] {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				raw = append(raw, part)
			}
		}
	}
	return domain.ParseRegulations(raw)
}

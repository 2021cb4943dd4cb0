package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"webpress/internal/codec"
	"webpress/internal/pipeline"
	"webpress/internal/session"
	"webpress/pkg/complexity"
	"webpress/pkg/quality"
)

// Handler handles HTTP requests for image conversion
type Handler struct {
	pipe         *pipeline.Pipeline
	maxUploadMB  int
	targetSizeKB int // default budget; per-request target_kb overrides it
	maxDimension int
}

// New creates a new Handler
func New(pipe *pipeline.Pipeline, targetSizeKB, maxUploadMB, maxDimension int) *Handler {
	return &Handler{
		pipe:         pipe,
		maxUploadMB:  maxUploadMB,
		targetSizeKB: targetSizeKB,
		maxDimension: maxDimension,
	}
}

// Convert handles the /convert endpoint: one uploaded image in, lossy
// WebP out. Optional query parameters: target_kb (advisory size
// budget for this request; non-numeric or <= 0 disables the adaptive
// search) and quality (30-100, overrides the complexity-derived
// suggestion).
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	opts := pipeline.Options{
		TargetBytes:  h.targetSizeKB * 1024,
		MaxDimension: h.maxDimension,
	}
	query := r.URL.Query()
	if s := query.Get("target_kb"); s != "" {
		// An unparseable or non-positive budget means "no budget",
		// never an error.
		kb, err := strconv.Atoi(s)
		if err != nil || kb <= 0 {
			kb = 0
		}
		opts.TargetBytes = kb * 1024
	}
	if s := query.Get("quality"); s != "" {
		if q, err := strconv.Atoi(s); err == nil && q > 0 {
			opts.Quality = q
		}
	}

	res, err := h.pipe.RunBytes(data, opts)
	if err != nil {
		writeConversionError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/webp")
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", session.OutputName(filename)))
	w.Header().Set("X-Webpress-Quality", strconv.Itoa(res.Quality))
	w.Header().Set("X-Webpress-Suggested", strconv.Itoa(res.Suggested))
	w.Header().Set("X-Webpress-Complexity", strconv.FormatFloat(res.Complexity, 'f', 4, 64))
	w.WriteHeader(http.StatusOK)
	w.Write(res.Data)
}

// suggestResponse is the /suggest payload.
type suggestResponse struct {
	Format     string  `json:"format"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Complexity float64 `json:"complexity"`
	Quality    int     `json:"quality"`
}

// Suggest handles the /suggest endpoint: estimate complexity and
// report the suggested quality without encoding anything.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	data, _, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	img, format, err := codec.Decode(data)
	if err != nil {
		writeConversionError(w, err)
		return
	}

	score := complexity.Estimate(img)
	bounds := img.Bounds()
	resp := suggestResponse{
		Format:     format,
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		Complexity: score,
		Quality:    quality.Suggest(score),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// Health handles the /health endpoint for readiness/liveness probes
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// readUpload parses the multipart upload and returns the file bytes
// and original filename. On failure it writes the error response and
// returns ok=false.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (data []byte, filename string, ok bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return nil, "", false
	}

	if err := r.ParseMultipartForm(int64(h.maxUploadMB) << 20); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			http.Error(w, "Content-Type must be multipart/form-data", http.StatusBadRequest)
		} else {
			http.Error(w, "Request too large", http.StatusRequestEntityTooLarge)
		}
		return nil, "", false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "No file provided", http.StatusBadRequest)
		return nil, "", false
	}
	defer file.Close()

	data, err = io.ReadAll(io.LimitReader(file, int64(h.maxUploadMB)<<20))
	if err != nil {
		http.Error(w, "Failed to read upload", http.StatusBadRequest)
		return nil, "", false
	}

	if _, err := codec.Sniff(data); err != nil {
		http.Error(w, "Unsupported image format", http.StatusUnsupportedMediaType)
		return nil, "", false
	}
	return data, header.Filename, true
}

func writeConversionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, codec.ErrUnsupportedFormat), errors.Is(err, codec.ErrEmptyInput):
		http.Error(w, "Unsupported image format", http.StatusUnsupportedMediaType)
	case errors.Is(err, codec.ErrFileTooLarge), errors.Is(err, codec.ErrImageTooLarge):
		http.Error(w, "Image too large", http.StatusRequestEntityTooLarge)
	case errors.Is(err, codec.ErrInvalidImageDimensions):
		http.Error(w, "Invalid image", http.StatusUnprocessableEntity)
	default:
		log.Printf("Conversion error: %v", err)
		http.Error(w, "Conversion failed", http.StatusInternalServerError)
	}
}

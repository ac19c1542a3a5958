package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/engineop/analyzer"
	"github.com/engineop/analyzer/keywords"
	"github.com/engineop/analyzer/metrics"
	"github.com/engineop/analyzer/models"
	"github.com/engineop/analyzer/report"
	"github.com/engineop/analyzer/storage"
)

// maxUploadSize bounds keyword CSV uploads.
const maxUploadSize = 10 * 1024 * 1024 // 10MB

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	count, err := s.db.Count()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get count")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"count":  count,
		"time":   time.Now(),
	})
}

// AnalyzeRequest represents an analysis request
type AnalyzeRequest struct {
	URL      string           `json:"url"`
	Mode     string           `json:"mode"`      // "single" (default) or "full"
	MaxPages int              `json:"max_pages"` // Full-site page cap
	Keywords []models.Keyword `json:"keywords,omitempty"`
}

// handleAnalyze starts an analysis run. Accepts either a JSON body or a
// multipart form with an optional keyword CSV upload. The run executes in
// the background; poll the progress endpoint for completion.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ip := clientIP(r)
	if !s.limiter.Allow(ip) {
		metrics.RateLimited.Inc()
		retryAfter := int(s.limiter.ResetAfter(ip).Seconds()) + 1
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
		respondError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
		return
	}

	req, err := parseAnalyzeRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.URL == "" {
		respondError(w, http.StatusBadRequest, "url is required")
		return
	}
	if u, err := url.Parse(req.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		respondError(w, http.StatusBadRequest, "url must be a valid http or https URL")
		return
	}

	mode := models.AnalysisMode(req.Mode)
	switch mode {
	case "":
		mode = models.ModeSinglePage
	case models.ModeSinglePage, models.ModeFullSite:
	default:
		respondError(w, http.StatusBadRequest, "mode must be \"single\" or \"full\"")
		return
	}

	id := uuid.New().String()
	s.progress.set(id, models.Progress{Status: "starting", Step: "Starting analysis...", Percent: 0})

	go s.runAnalysis(id, analyzer.Request{
		ID:       id,
		URL:      req.URL,
		Mode:     mode,
		MaxPages: req.MaxPages,
		Keywords: req.Keywords,
	})

	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"id":     id,
		"status": "running",
	})
}

// runAnalysis executes one analysis in the background, updating progress
// and persisting the result.
func (s *Server) runAnalysis(id string, req analyzer.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), analysisTimeout)
	defer cancel()

	result := s.analyzer.Run(ctx, req, func(step string, percent int) {
		s.progress.set(id, models.Progress{Status: "running", Step: step, Percent: percent})
	})

	if result.Error != "" {
		s.progress.set(id, models.Progress{Status: "failed", Step: result.Error, Percent: 100})
		return
	}

	if err := s.db.SaveAnalysis(result); err != nil {
		log.Printf("Failed to save analysis %s: %v", id, err)
		s.progress.set(id, models.Progress{Status: "failed", Step: "failed to save analysis", Percent: 100})
		return
	}

	s.progress.set(id, models.Progress{Status: "complete", Step: "Complete", Percent: 100})
}

// parseAnalyzeRequest decodes either JSON or multipart form input.
func parseAnalyzeRequest(r *http.Request) (*AnalyzeRequest, error) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		var req AnalyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, fmt.Errorf("invalid request body")
		}
		return &req, nil
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, fmt.Errorf("invalid multipart form")
	}

	req := &AnalyzeRequest{
		URL:  r.FormValue("url"),
		Mode: r.FormValue("mode"),
	}
	if v := r.FormValue("max_pages"); v != "" {
		if _, err := fmt.Sscanf(v, "%d", &req.MaxPages); err != nil {
			return nil, fmt.Errorf("max_pages must be a number")
		}
	}

	file, _, err := r.FormFile("keywords_csv")
	if err == nil {
		defer file.Close()
		kws, err := keywords.Parse(io.LimitReader(file, maxUploadSize))
		if err != nil {
			return nil, fmt.Errorf("keyword CSV: %v", err)
		}
		req.Keywords = kws
	}

	return req, nil
}

// handleList lists stored analyses with pagination
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := 20
	offset := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		fmt.Sscanf(limitStr, "%d", &limit)
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		fmt.Sscanf(offsetStr, "%d", &offset)
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	data, err := s.db.ListAnalyses(limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	count, _ := s.db.Count()

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"data":   data,
		"total":  count,
		"limit":  limit,
		"offset": offset,
	})
}

// handleAnalysis routes /api/analyses/{id}, /api/analyses/{id}/progress
// and /api/analyses/{id}/report/{format}.
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/analyses/")
	if path == "" {
		respondError(w, http.StatusBadRequest, "id is required")
		return
	}

	if strings.HasSuffix(path, "/progress") {
		id := strings.TrimSuffix(path, "/progress")
		if r.Method != http.MethodGet {
			respondError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		s.handleProgress(w, r, id)
		return
	}

	if idx := strings.Index(path, "/report/"); idx != -1 {
		id := path[:idx]
		format := path[idx+len("/report/"):]
		if r.Method != http.MethodGet {
			respondError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		s.handleReport(w, r, id, format)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGetAnalysis(w, r, path)
	case http.MethodDelete:
		s.handleDeleteAnalysis(w, r, path)
	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleGetAnalysis retrieves a stored analysis by ID. A still-running
// analysis responds 202 with its progress.
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request, id string) {
	result, err := s.db.GetAnalysis(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	if result != nil {
		respondJSON(w, http.StatusOK, result)
		return
	}

	if p, ok := s.progress.get(id); ok && p.Status != "complete" {
		respondJSON(w, http.StatusAccepted, map[string]interface{}{
			"id":       id,
			"status":   p.Status,
			"progress": p,
		})
		return
	}

	respondError(w, http.StatusNotFound, "analysis not found")
}

// handleDeleteAnalysis deletes a stored analysis by ID
func (s *Server) handleDeleteAnalysis(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.db.DeleteAnalysis(id); err != nil {
		if strings.Contains(err.Error(), "no analysis found") {
			respondError(w, http.StatusNotFound, "analysis not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to delete analysis")
		return
	}
	s.progress.remove(id)

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "analysis deleted successfully",
	})
}

// handleProgress reports the progress of a running or finished analysis
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request, id string) {
	if p, ok := s.progress.get(id); ok {
		respondJSON(w, http.StatusOK, p)
		return
	}

	// The tracker forgets entries on restart; a stored result is complete.
	result, err := s.db.GetAnalysis(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	if result != nil {
		respondJSON(w, http.StatusOK, models.Progress{Status: "complete", Step: "Complete", Percent: 100})
		return
	}

	respondError(w, http.StatusNotFound, "analysis not found")
}

// handleReport renders a stored analysis in the requested format and
// serves it as a download. A copy is archived for later retrieval.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request, id, format string) {
	result, err := s.db.GetAnalysis(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	if result == nil {
		respondError(w, http.StatusNotFound, "analysis not found")
		return
	}

	format = strings.ToLower(format)
	var data []byte
	switch format {
	case "markdown", "md":
		data = []byte(report.Markdown(result))
	case "html":
		html, err := report.HTML(result)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to generate report")
			return
		}
		data = []byte(html)
	case "csv":
		csvData, err := report.CSV(result)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to generate report")
			return
		}
		data = []byte(csvData)
	case "pdf":
		pdfData, err := report.PDF(result)
		if err != nil {
			log.Printf("Failed to generate PDF for %s: %v", id, err)
			respondError(w, http.StatusInternalServerError, "failed to generate report")
			return
		}
		data = pdfData
	default:
		respondError(w, http.StatusBadRequest, "format must be one of: markdown, html, csv, pdf")
		return
	}

	name := report.Filename(result)
	if _, err := s.archive.SaveReport(data, name, format); err != nil {
		log.Printf("Failed to archive report for %s: %v", id, err)
	}

	contentType := storage.ContentTypeForFormat(format)
	ext := format
	if format == "markdown" {
		ext = "md"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+"."+ext))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// handleParseKeywords validates a keyword CSV without starting a run.
// Accepts a multipart upload ("file" field) or a raw CSV body.
func (s *Server) handleParseKeywords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var reader io.Reader
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			respondError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			respondError(w, http.StatusBadRequest, "file is required")
			return
		}
		defer file.Close()
		reader = file
	} else {
		reader = r.Body
	}

	kws, err := keywords.Parse(io.LimitReader(reader, maxUploadSize))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"keywords": kws,
		"count":    len(kws),
	})
}

package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hyperjump/smartdata/internal/catalog"
	"github.com/hyperjump/smartdata/internal/crawler"
	"github.com/hyperjump/smartdata/internal/mapping"
	"github.com/hyperjump/smartdata/internal/models"
	"github.com/hyperjump/smartdata/internal/organize"
	"github.com/hyperjump/smartdata/internal/storage"
	"go.uber.org/zap"
)

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	if !isJSON(r) {
		s.respondError(w, http.StatusUnsupportedMediaType, "Unsupported Media Type")
		return
	}
	var query models.RecommendQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("recommend request", zap.String("query", query.Query))
	products, err := s.deps.Storage.SearchProductsByName(r.Context(), query.Query)
	if err != nil {
		s.logger.Error("recommend failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, products)
}

func (s *Server) handleLocalRecommend(w http.ResponseWriter, r *http.Request) {
	var query models.RecommendQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	products, err := catalog.LoadLocalProducts(filepath.Join(s.deps.WatchDir, catalog.FileName))
	if err != nil {
		s.logger.Warn("local recommend failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, catalog.Recommend(products, query.Query))
}

type startSpiderRequest struct {
	URLs        []string `json:"urls"`
	Description string   `json:"description"`
}

func (s *Server) handleStartSpider(w http.ResponseWriter, r *http.Request) {
	var req startSpiderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.URLs) == 0 || req.Description == "" {
		s.respondError(w, http.StatusBadRequest, "URLs and description are required")
		return
	}
	s.logger.Info("start spider request", zap.Strings("urls", req.URLs), zap.String("description", req.Description))
	results, err := s.deps.Crawler.Run(r.Context(), req.URLs, req.Description)
	if err != nil {
		var runErr *crawler.RunError
		switch {
		case errors.Is(err, crawler.ErrBusy):
			s.respondError(w, http.StatusConflict, err.Error())
		case errors.Is(err, crawler.ErrStopped) && errors.As(err, &runErr):
			s.respondJSON(w, http.StatusConflict, map[string]interface{}{
				"error":   err.Error(),
				"output":  runErr.Output,
				"results": results,
			})
		case errors.As(err, &runErr):
			s.respondJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"error":   err.Error(),
				"output":  runErr.Output,
				"results": results,
			})
		default:
			s.respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Spider started successfully for all URLs",
		"results": results,
	})
}

func (s *Server) handleStopSpider(w http.ResponseWriter, r *http.Request) {
	if s.deps.Crawler.Stop() {
		s.logger.Info("spider stop requested")
		s.respondJSON(w, http.StatusOK, map[string]interface{}{"message": "Spider stopped", "stopped": true})
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"message": "No spider running", "stopped": false})
}

func (s *Server) handleOrganize(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Info map[string]interface{} `json:"info"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	written, err := s.deps.Organizer.Organize(body.Info)
	if err != nil {
		var inErr *organize.InvalidInputError
		if errors.As(err, &inErr) {
			s.respondError(w, http.StatusBadRequest, inErr.Reason)
			return
		}
		s.logger.Error("organize failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Info organized successfully",
		"files":   written,
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Message == "" {
		s.respondJSON(w, http.StatusBadRequest, map[string]string{"response": "No message received"})
		return
	}
	if s.deps.Chat == nil {
		s.respondError(w, http.StatusNotImplemented, "chat not configured")
		return
	}
	reply, err := s.deps.Chat.Reply(r.Context(), body.Message)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"response": reply})
}

func (s *Server) handleGetMappings(w http.ResponseWriter, r *http.Request) {
	m, err := s.deps.Mappings.Load()
	if err != nil {
		s.logger.Error("load keyword mappings failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, m)
}

func (s *Server) handleUpdateMappings(w http.ResponseWriter, r *http.Request) {
	var m mapping.KeywordMapping
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid keyword mappings: "+err.Error())
		return
	}
	if err := s.deps.Mappings.Save(&m); err != nil {
		s.logger.Error("save keyword mappings failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("keyword mappings updated", zap.Int("entries", m.Len()))
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "Keyword mappings updated successfully"})
}

func (s *Server) handleUpdateSpiderRules(w http.ResponseWriter, r *http.Request) {
	var rules crawler.Rules
	if err := json.NewDecoder(r.Body).Decode(&rules); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid spider rules: "+err.Error())
		return
	}
	if err := crawler.SaveRules(s.deps.RulesPath, rules); err != nil {
		s.logger.Error("save spider rules failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "Spider rules updated successfully"})
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	q := models.RecordListQuery{
		Offset: queryInt(r, "offset"),
		Limit:  queryInt(r, "limit"),
	}
	q.Normalize()
	records, err := s.deps.Storage.ListRecords(r.Context(), q.Offset, q.Limit)
	if err != nil {
		s.logger.Error("list records failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"records": records,
		"offset":  q.Offset,
		"limit":   q.Limit,
	})
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := s.deps.Storage.GetRecord(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "record not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var input models.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := s.deps.Storage.CreateProduct(r.Context(), &input)
	if err != nil {
		var storeErr *storage.StorageError
		if errors.As(err, &storeErr) {
			s.logger.Error("create product failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := s.deps.Storage.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "product not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	recordCount, err := s.deps.Storage.CountRecords(ctx)
	if err != nil {
		s.logger.Error("status: count records failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	productCount, err := s.deps.Storage.CountProducts(ctx)
	if err != nil {
		s.logger.Error("status: count products failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]interface{}{
		"records":         recordCount,
		"products":        productCount,
		"watch_directory": s.deps.WatchDir,
		"crawler_running": s.deps.Crawler != nil && s.deps.Crawler.Running(),
		"chat_enabled":    s.deps.Chat != nil,
	}
	if usage, err := storage.DiskUsage(s.deps.DiskPaths...); err == nil {
		resp["disk_usage"] = usage
	} else {
		s.logger.Warn("status: disk usage failed", zap.Error(err))
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

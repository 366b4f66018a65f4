package server

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/tierlist/pkg/buildinfo"
	"github.com/matzehuels/tierlist/pkg/bundle"
	"github.com/matzehuels/tierlist/pkg/errors"
	"github.com/matzehuels/tierlist/pkg/submission"
)

type generateResponse struct {
	Token       string `json:"token"`
	DownloadURL string `json:"download_url"`
	Tiles       int    `json:"tiles"`
	Fallbacks   int    `json:"fallbacks"`
}

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	sub, err := s.readSubmission(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.GenerateCollage(r.Context(), sub, s.namespace(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	token, err := s.bundles.Write(res.Data, res.Format, submission.NewSnapshot(sub))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "store bundle"))
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Token:       token,
		DownloadURL: "/download/" + token,
		Tiles:       res.Stats.Tiles,
		Fallbacks:   res.Stats.Fallbacks,
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	f, err := s.bundles.Open(chi.URLParam(r, "token"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "stat bundle"))
		return
	}
	w.Header().Set("Content-Type", bundle.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", bundle.DownloadName))
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	if _, err := io.Copy(w, f); err != nil {
		s.logger.Debug("download interrupted", "err", err)
	}
}

func (s *Server) handleCollage(w http.ResponseWriter, r *http.Request) {
	sub, err := s.readSubmission(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.GenerateCollage(r.Context(), sub, s.namespace(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", res.Format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	w.Header().Set("X-Tierlist-Fallbacks", strconv.Itoa(res.Stats.Fallbacks))
	_, _ = w.Write(res.Data)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Get()})
}

// readSubmission parses a URL-encoded or multipart form into a Submission.
func (s *Server) readSubmission(w http.ResponseWriter, r *http.Request) (submission.Submission, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxFormBytes)

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(s.maxFormBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return submission.Submission{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed form")
	}
	if len(r.PostForm) == 0 {
		return submission.Submission{}, errors.New(errors.ErrCodeInvalidInput, "No form data received")
	}

	sub := submission.FromValues(r.PostForm)
	if err := sub.Validate(); err != nil {
		return submission.Submission{}, err
	}
	return sub, nil
}

func (s *Server) namespace(r *http.Request) string {
	if s.namespaceHeader == "" {
		return ""
	}
	return strings.TrimSpace(r.Header.Get(s.namespaceHeader))
}

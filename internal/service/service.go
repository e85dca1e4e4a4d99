// Package service runs the end-to-end job search: skills are taken from the
// request or extracted from a résumé, searched across providers, retried
// with the job field when only placeholders came back, and recorded.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/resumesmartx/resumesmartx/internal/model"
	"github.com/resumesmartx/resumesmartx/internal/query"
	"github.com/resumesmartx/resumesmartx/internal/resume"
	"github.com/resumesmartx/resumesmartx/internal/skills"
)

// SkillExtractor turns résumé text into skills.
type SkillExtractor interface {
	Extract(ctx context.Context, resumeText string) ([]string, error)
}

// JobSearcher runs one search across providers. *search.Coordinator satisfies it.
type JobSearcher interface {
	Search(ctx context.Context, q string, max int) model.SearchResult
}

// Request is one search. Query, when set, is used verbatim; otherwise the
// query is built from Skills, then from skills extracted from ResumeText,
// then from JobField.
type Request struct {
	Query      string
	Skills     []string
	ResumeText string
	JobField   string
	MaxResults int
}

// Response is the search result plus the skills the query was built from.
type Response struct {
	model.SearchResult
	Skills []string `json:"skills,omitempty"`
}

// Service wires skill extraction, search and history together.
type Service struct {
	extractor SkillExtractor
	searcher  JobSearcher
	history   model.SearchRecorder
	logger    *slog.Logger
}

// New creates a Service.
func New(extractor SkillExtractor, searcher JobSearcher, history model.SearchRecorder, logger *slog.Logger) *Service {
	return &Service{
		extractor: extractor,
		searcher:  searcher,
		history:   history,
		logger:    logger,
	}
}

// Search runs req. Like the coordinator it never fails: the worst outcome is
// the placeholder listings with Fallback set.
func (s *Service) Search(ctx context.Context, req Request) Response {
	field := strings.TrimSpace(req.JobField)
	skillList := req.Skills

	switch {
	case len(skillList) > 0 || strings.TrimSpace(req.Query) != "":
	case strings.TrimSpace(req.ResumeText) != "":
		extracted, err := s.extractor.Extract(ctx, req.ResumeText)
		if err != nil {
			s.logger.Warn("skill extraction failed, searching by job field", "error", err)
		}
		skillList = extracted
	default:
		skillList = skills.FieldSkills(field)
	}

	q := strings.TrimSpace(req.Query)
	if q == "" {
		// ErrEmptyQuery leaves q blank; the searcher answers with placeholders.
		q, _ = query.Base(skillList, field)
	}

	res := s.searcher.Search(ctx, q, req.MaxResults)
	if res.Fallback && field != "" && field != q && ctx.Err() == nil {
		s.logger.Info("no live results, retrying with job field", "query", q, "job_field", field)
		retry := s.searcher.Search(ctx, field, req.MaxResults)
		trace := append(res.Trace, retry.Trace...)
		if !retry.Fallback {
			res = retry
		}
		res.Trace = trace
	}

	s.record(res)
	return Response{SearchResult: res, Skills: skillList}
}

// SearchResume extracts text from a PDF résumé and searches with it. A PDF
// without text (a scan) degrades to a job field search; any other unreadable
// input is an error.
func (s *Service) SearchResume(ctx context.Context, pdf []byte, jobField string, max int) (Response, error) {
	text, err := resume.ExtractText(pdf)
	switch {
	case errors.Is(err, resume.ErrNoText):
		s.logger.Warn("resume has no extractable text, searching by job field", "job_field", jobField)
	case err != nil:
		return Response{}, fmt.Errorf("read resume: %w", err)
	}
	return s.Search(ctx, Request{ResumeText: text, JobField: jobField, MaxResults: max}), nil
}

func (s *Service) record(res model.SearchResult) {
	if s.history == nil {
		return
	}
	err := s.history.RecordSearch(model.SearchRecord{
		Query:    res.Query,
		Provider: res.Provider,
		Fallback: res.Fallback,
		Results:  len(res.Listings),
	})
	if err != nil {
		s.logger.Warn("failed to record search history", "error", err)
	}
}

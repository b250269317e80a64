package application

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pyreview/pyreview/internal/domain"
	"github.com/pyreview/pyreview/internal/domain/harness"
)

// ReviewService orchestrates the review pipeline:
// analyze → (style check ∥ harness build) → assemble report → persist.
//
// Analysis failures halt the pipeline; style and harness failures degrade
// into the report so a submission always gets structural feedback.
type ReviewService struct {
	analyzer domain.SourceAnalyzer
	checker  domain.StyleChecker
	runner   domain.HarnessRunner
	gitInfo  domain.GitInfo
	history  domain.ReviewHistory
	cfg      domain.ReviewConfig
	log      *zap.Logger
}

func NewReviewService(
	analyzer domain.SourceAnalyzer,
	checker domain.StyleChecker,
	runner domain.HarnessRunner,
	gitInfo domain.GitInfo,
	history domain.ReviewHistory,
	cfg domain.ReviewConfig,
	log *zap.Logger,
) *ReviewService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReviewService{
		analyzer: analyzer,
		checker:  checker,
		runner:   runner,
		gitInfo:  gitInfo,
		history:  history,
		cfg:      cfg,
		log:      log,
	}
}

// ReviewOptions tune a single pipeline run.
type ReviewOptions struct {
	// ProjectPath is used for commit-hash lookup; empty skips it.
	ProjectPath string
	// RunTests executes the generated harness after building it.
	RunTests bool
}

// Review runs the full pipeline over one submission.
func (s *ReviewService) Review(ctx context.Context, source string, opts ReviewOptions) (*domain.ReviewReport, error) {
	unit := domain.NewSourceUnit(source)
	if len(source) > s.cfg.MaxSourceChars {
		return nil, fmt.Errorf("%w: %d chars exceeds limit of %d",
			domain.ErrSourceTooLarge, len(source), s.cfg.MaxSourceChars)
	}

	// 1. Structure first; nothing downstream is meaningful without it.
	summary, err := s.analyzer.Analyze(source)
	if err != nil {
		return nil, err
	}

	// 2. Style and harness generation are independent of each other.
	var (
		wg         sync.WaitGroup
		style      domain.StyleReport
		script     string
		harnessErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		style = s.checker.Check(source, s.cfg)
	}()
	go func() {
		defer wg.Done()
		script, harnessErr = harness.NewBuilder(s.cfg).Build(source, summary.Functions)
	}()
	wg.Wait()

	report := &domain.ReviewReport{
		ID:         uuid.NewString(),
		Timestamp:  time.Now(),
		SourceHash: unit.Hash(),
		LineCount:  unit.LineCount,
		Structure:  summary,
		Style:      style,
		Harness:    script,
	}

	if harnessErr != nil {
		// Degraded: structural and style feedback still stand.
		s.log.Warn("harness generation failed", zap.Error(harnessErr))
		report.Tests = &domain.TestExecutionResult{
			PassRate: 100,
			Details:  []domain.CaseOutcome{},
			Error:    fmt.Sprintf("test generation failed: %v", harnessErr),
		}
	} else if opts.RunTests {
		report.Tests = s.runHarness(ctx, script)
	}

	if opts.ProjectPath != "" && s.gitInfo != nil {
		if hash, err := s.gitInfo.CommitHash(opts.ProjectPath); err == nil {
			report.CommitHash = hash
		}
	}

	s.attachProgress(report)
	s.persist(report)

	return report, nil
}

// RunTests executes a previously generated harness script.
func (s *ReviewService) RunTests(ctx context.Context, script string) (*domain.TestExecutionResult, error) {
	runCtx, cancel := context.WithTimeout(ctx, s.cfg.RunTimeout())
	defer cancel()
	return s.runner.Run(runCtx, script)
}

// Analyze exposes the structural pass on its own.
func (s *ReviewService) Analyze(source string) (*domain.StructuralSummary, error) {
	return s.analyzer.Analyze(source)
}

// CheckStyle exposes the style pass on its own.
func (s *ReviewService) CheckStyle(source string) domain.StyleReport {
	return s.checker.Check(source, s.cfg)
}

// BuildHarness analyzes the source and generates its test harness script.
func (s *ReviewService) BuildHarness(source string) (string, error) {
	summary, err := s.analyzer.Analyze(source)
	if err != nil {
		return "", err
	}
	return harness.NewBuilder(s.cfg).Build(source, summary.Functions)
}

// RecentHistory returns up to limit persisted review entries, newest first.
func (s *ReviewService) RecentHistory(limit int) ([]domain.ReviewEntry, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.Recent(limit)
}

func (s *ReviewService) runHarness(ctx context.Context, script string) *domain.TestExecutionResult {
	result, err := s.RunTests(ctx, script)
	if err != nil {
		s.log.Warn("harness execution failed", zap.Error(err))
		return &domain.TestExecutionResult{
			PassRate: 100,
			Details:  []domain.CaseOutcome{},
			Error:    fmt.Sprintf("test execution failed: %v", err),
		}
	}
	return result
}

// attachProgress fills attempt number and score delta from the previous
// review, when a history store is wired.
func (s *ReviewService) attachProgress(report *domain.ReviewReport) {
	if s.history == nil {
		return
	}
	last, err := s.history.Last("")
	if err != nil {
		s.log.Warn("loading previous review failed", zap.Error(err))
		return
	}
	if last == nil {
		report.Attempt = 1
		return
	}
	report.Attempt = last.Attempt + 1
	report.ScoreDelta = report.Style.Score - last.StyleScore
}

func (s *ReviewService) persist(report *domain.ReviewReport) {
	if s.history == nil {
		return
	}
	entry := domain.ReviewEntry{
		ID:         report.ID,
		Timestamp:  report.Timestamp,
		SourceHash: report.SourceHash,
		CommitHash: report.CommitHash,
		StyleScore: report.Style.Score,
		IssueCount: report.Style.IssueCount,
		Attempt:    report.Attempt,
	}
	if report.Tests != nil {
		entry.PassRate = report.Tests.PassRate
	}
	if data, err := json.Marshal(report); err == nil {
		entry.ReportJSON = string(data)
	}
	if err := s.history.Save(entry); err != nil {
		s.log.Warn("saving review history failed", zap.Error(err))
	}
}

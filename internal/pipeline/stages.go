// Package pipeline drives the downstream stages of a case after its
// document jobs have drained: feature extraction, eligibility scoring and
// report generation, in that order.
package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/caseflow/caseflow/internal/logger"
)

// Stage is one downstream collaborator, keyed by the case's public
// identifier. Stage business logic lives outside this service.
type Stage interface {
	Run(ctx context.Context, casePublicID uuid.UUID) error
}

// StageFunc adapts a plain function to the Stage interface.
type StageFunc func(ctx context.Context, casePublicID uuid.UUID) error

func (f StageFunc) Run(ctx context.Context, casePublicID uuid.UUID) error {
	return f(ctx, casePublicID)
}

// NamedStage pairs a stage with the name used in logs and failure reasons.
type NamedStage struct {
	Name  string
	Stage Stage
}

// Stages builds the fixed stage order the runner executes.
func Stages(extraction, eligibility, report Stage) []NamedStage {
	return []NamedStage{
		{Name: "feature_extraction", Stage: extraction},
		{Name: "eligibility_scoring", Stage: eligibility},
		{Name: "report_generation", Stage: report},
	}
}

// LoggingStages returns placeholder stages that only log. The stage
// services are external collaborators; local runs use these until real
// endpoints are configured.
func LoggingStages() []NamedStage {
	logStage := func(name string) Stage {
		return StageFunc(func(ctx context.Context, casePublicID uuid.UUID) error {
			logger.Infof("stage %s invoked for case %s", name, casePublicID)
			return nil
		})
	}
	return Stages(
		logStage("feature_extraction"),
		logStage("eligibility_scoring"),
		logStage("report_generation"),
	)
}

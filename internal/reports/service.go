package reports

import (
	"context"
	"strings"
	"time"

	"github.com/emontecinos/campusmarket-backend/internal/notifications"
	"github.com/emontecinos/campusmarket-backend/pkg/db/models"
	"github.com/emontecinos/campusmarket-backend/pkg/enums"
	pkgerrors "github.com/emontecinos/campusmarket-backend/pkg/errors"
	"github.com/emontecinos/campusmarket-backend/pkg/logger"
	"github.com/emontecinos/campusmarket-backend/pkg/pagination"
	"github.com/emontecinos/campusmarket-backend/pkg/types"
)

// CreateInput is the wire body for filing a report. Exactly one target —
// an account or a product — must be set.
type CreateInput struct {
	ReportedAccountID *int64 `json:"reportedAccountId" validate:"omitempty,gt=0"`
	ProductID         *int64 `json:"productId" validate:"omitempty,gt=0"`
	Reason            string `json:"reason" validate:"required,min=3,max=200"`
	Detail            string `json:"detail" validate:"omitempty,max=4000"`
}

// ResolveInput is the admin wire body for closing a report.
type ResolveInput struct {
	Status string `json:"status" validate:"required,oneof=reviewed dismissed"`
}

// ReportDTO is the outbound representation of a moderation report.
type ReportDTO struct {
	ID                int64              `json:"id"`
	ReporterID        int64              `json:"reporterId"`
	ReportedAccountID *int64             `json:"reportedAccountId,omitempty"`
	ProductID         *int64             `json:"productId,omitempty"`
	Reason            string             `json:"reason"`
	Detail            string             `json:"detail,omitempty"`
	Status            enums.ReportStatus `json:"status"`
	CreatedAt         time.Time          `json:"createdAt"`
	ResolvedAt        *time.Time         `json:"resolvedAt,omitempty"`
}

// Service exposes moderation report operations.
type Service interface {
	Create(ctx context.Context, reporterID int64, in CreateInput) (*ReportDTO, error)
	ListMine(ctx context.Context, reporterID int64, params pagination.Params) ([]ReportDTO, types.Pagination, error)
	AdminList(ctx context.Context, status string, params pagination.Params) ([]ReportDTO, types.Pagination, error)
	AdminResolve(ctx context.Context, reportID int64, in ResolveInput) (*ReportDTO, error)
}

// ServiceParams groups dependencies for the reports service.
type ServiceParams struct {
	Repo             Repository
	NotificationRepo notifications.Repository
	Logger           *logger.Logger
}

type service struct {
	repo      Repository
	notifRepo notifications.Repository
	logg      *logger.Logger
}

// NewService wires report dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "reports repository required")
	}
	if params.NotificationRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &service{
		repo:      params.Repo,
		notifRepo: params.NotificationRepo,
		logg:      params.Logger,
	}, nil
}

func (s *service) Create(ctx context.Context, reporterID int64, in CreateInput) (*ReportDTO, error) {
	if strings.TrimSpace(in.Reason) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reason is required")
	}
	if (in.ReportedAccountID == nil) == (in.ProductID == nil) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "report exactly one target: an account or a product")
	}

	report := models.Report{
		ReporterID:        reporterID,
		ReportedAccountID: in.ReportedAccountID,
		ProductID:         in.ProductID,
		Reason:            in.Reason,
		Detail:            in.Detail,
		Status:            enums.ReportStatusOpen,
	}
	if err := s.repo.Create(ctx, &report); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist report")
	}

	dto := toDTO(report)
	return &dto, nil
}

func (s *service) ListMine(ctx context.Context, reporterID int64, params pagination.Params) ([]ReportDTO, types.Pagination, error) {
	page := pagination.NormalizePage(params.Page)
	limit := pagination.NormalizeLimit(params.Limit)

	rows, total, err := s.repo.ListForReporter(ctx, reporterID, pagination.Offset(page, limit), limit)
	if err != nil {
		return nil, types.Pagination{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reports")
	}
	return collect(rows), pageMeta(page, limit, total), nil
}

func (s *service) AdminList(ctx context.Context, status string, params pagination.Params) ([]ReportDTO, types.Pagination, error) {
	var statusFilter enums.ReportStatus
	if status != "" {
		parsed, err := enums.ParseReportStatus(status)
		if err != nil {
			return nil, types.Pagination{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		statusFilter = parsed
	}

	page := pagination.NormalizePage(params.Page)
	limit := pagination.NormalizeLimit(params.Limit)

	rows, total, err := s.repo.List(ctx, statusFilter, pagination.Offset(page, limit), limit)
	if err != nil {
		return nil, types.Pagination{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reports")
	}
	return collect(rows), pageMeta(page, limit, total), nil
}

// AdminResolve closes an open report and notifies the reporter. Resolving an
// already-closed report is a precondition failure, not idempotent.
func (s *service) AdminResolve(ctx context.Context, reportID int64, in ResolveInput) (*ReportDTO, error) {
	status, err := enums.ParseReportStatus(in.Status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
	}
	if status == enums.ReportStatusOpen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot resolve to open")
	}

	report, err := s.repo.FindByID(ctx, reportID)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "report not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load report")
	}
	if report.Status != enums.ReportStatusOpen {
		return nil, pkgerrors.New(pkgerrors.CodePrecondition, "report already resolved")
	}

	now := time.Now().UTC()
	report.Status = status
	report.ResolvedAt = &now
	if err := s.repo.Save(ctx, report); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update report")
	}

	notification := models.Notification{
		AccountID: report.ReporterID,
		Type:      enums.NotificationTypeReportResolved,
		Title:     "Report resolved",
		Message:   "Your report has been " + status.String(),
	}
	if err := s.notifRepo.Create(ctx, &notification); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "report_id", reportID), "reports.resolve notification failed")
	}

	dto := toDTO(*report)
	return &dto, nil
}

func collect(rows []models.Report) []ReportDTO {
	items := make([]ReportDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, toDTO(row))
	}
	return items
}

func pageMeta(page, limit int, total int64) types.Pagination {
	return types.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: pagination.TotalPages(total, limit),
	}
}

func toDTO(report models.Report) ReportDTO {
	return ReportDTO{
		ID:                report.ID,
		ReporterID:        report.ReporterID,
		ReportedAccountID: report.ReportedAccountID,
		ProductID:         report.ProductID,
		Reason:            report.Reason,
		Detail:            report.Detail,
		Status:            report.Status,
		CreatedAt:         report.CreatedAt,
		ResolvedAt:        report.ResolvedAt,
	}
}

package publications

import (
	"context"
	"time"

	"github.com/emontecinos/campusmarket-backend/pkg/db/models"
	"github.com/emontecinos/campusmarket-backend/pkg/enums"
	pkgerrors "github.com/emontecinos/campusmarket-backend/pkg/errors"
	"github.com/emontecinos/campusmarket-backend/pkg/pagination"
	"github.com/emontecinos/campusmarket-backend/pkg/types"
)

// CreateInput is the wire body for a bulletin post.
type CreateInput struct {
	Title string `json:"title" validate:"required,min=3,max=160"`
	Body  string `json:"body" validate:"required,min=10,max=8000"`
}

// UpdateInput carries the mutable publication fields; nil means unchanged.
type UpdateInput struct {
	Title *string `json:"title" validate:"omitempty,min=3,max=160"`
	Body  *string `json:"body" validate:"omitempty,min=10,max=8000"`
}

// AuthorRef is the embedded author view on publication payloads.
type AuthorRef struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// PublicationDTO is the outbound representation of a bulletin post.
type PublicationDTO struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Author    *AuthorRef `json:"author,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Actor identifies who is performing a mutation.
type Actor struct {
	AccountID int64
	Role      enums.Role
}

// Service exposes community bulletin operations.
type Service interface {
	List(ctx context.Context, search string, params pagination.Params) ([]PublicationDTO, types.Pagination, error)
	Create(ctx context.Context, authorID int64, in CreateInput) (*PublicationDTO, error)
	Update(ctx context.Context, actor Actor, id int64, in UpdateInput) (*PublicationDTO, error)
	Delete(ctx context.Context, actor Actor, id int64) error
}

type service struct {
	repo Repository
}

// NewService wires publication dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "publications repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, search string, params pagination.Params) ([]PublicationDTO, types.Pagination, error) {
	page := pagination.NormalizePage(params.Page)
	limit := pagination.NormalizeLimit(params.Limit)

	rows, total, err := s.repo.List(ctx, search, pagination.Offset(page, limit), limit)
	if err != nil {
		return nil, types.Pagination{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list publications")
	}

	items := make([]PublicationDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, toDTO(row))
	}

	meta := types.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: pagination.TotalPages(total, limit),
	}
	return items, meta, nil
}

func (s *service) Create(ctx context.Context, authorID int64, in CreateInput) (*PublicationDTO, error) {
	publication := models.Publication{
		AuthorID: authorID,
		Title:    in.Title,
		Body:     in.Body,
	}
	if err := s.repo.Create(ctx, &publication); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist publication")
	}

	stored, err := s.repo.FindByID(ctx, publication.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load publication")
	}
	dto := toDTO(*stored)
	return &dto, nil
}

// Update modifies a post; only its author or an admin may.
func (s *service) Update(ctx context.Context, actor Actor, id int64, in UpdateInput) (*PublicationDTO, error) {
	publication, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireAuthorship(actor, publication); err != nil {
		return nil, err
	}

	if in.Title != nil {
		publication.Title = *in.Title
	}
	if in.Body != nil {
		publication.Body = *in.Body
	}
	if err := s.repo.Save(ctx, publication); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update publication")
	}

	stored, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load publication")
	}
	dto := toDTO(*stored)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, actor Actor, id int64) error {
	publication, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := requireAuthorship(actor, publication); err != nil {
		return err
	}
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete publication")
	}
	return nil
}

func (s *service) load(ctx context.Context, id int64) (*models.Publication, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "publication id is required")
	}
	publication, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "publication not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load publication")
	}
	return publication, nil
}

func requireAuthorship(actor Actor, publication *models.Publication) error {
	if actor.Role == enums.RoleAdmin || actor.AccountID == publication.AuthorID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "not the publication author")
}

func toDTO(publication models.Publication) PublicationDTO {
	dto := PublicationDTO{
		ID:        publication.ID,
		Title:     publication.Title,
		Body:      publication.Body,
		CreatedAt: publication.CreatedAt,
		UpdatedAt: publication.UpdatedAt,
	}
	if publication.Author != nil {
		dto.Author = &AuthorRef{
			ID:        publication.Author.ID,
			Username:  publication.Author.Username,
			FirstName: publication.Author.FirstName,
			LastName:  publication.Author.LastName,
		}
	}
	return dto
}

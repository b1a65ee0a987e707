package publications

import (
	"context"
	"testing"

	"github.com/emontecinos/campusmarket-backend/pkg/db/models"
	"github.com/emontecinos/campusmarket-backend/pkg/enums"
	pkgerrors "github.com/emontecinos/campusmarket-backend/pkg/errors"
	"gorm.io/gorm"
)

type stubPublicationRepo struct {
	nextID  int64
	stored  map[int64]*models.Publication
	deleted []int64
}

func newStubPublicationRepo() *stubPublicationRepo {
	return &stubPublicationRepo{stored: make(map[int64]*models.Publication)}
}

func (s *stubPublicationRepo) Create(ctx context.Context, publication *models.Publication) error {
	s.nextID++
	publication.ID = s.nextID
	stored := *publication
	s.stored[publication.ID] = &stored
	return nil
}

func (s *stubPublicationRepo) FindByID(ctx context.Context, id int64) (*models.Publication, error) {
	if publication, ok := s.stored[id]; ok {
		copied := *publication
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPublicationRepo) List(ctx context.Context, search string, offset, limit int) ([]models.Publication, int64, error) {
	return nil, 0, nil
}

func (s *stubPublicationRepo) Save(ctx context.Context, publication *models.Publication) error {
	stored := *publication
	s.stored[publication.ID] = &stored
	return nil
}

func (s *stubPublicationRepo) Delete(ctx context.Context, id int64) (int64, error) {
	if _, ok := s.stored[id]; !ok {
		return 0, nil
	}
	delete(s.stored, id)
	s.deleted = append(s.deleted, id)
	return 1, nil
}

func newBulletinService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("wiring publications service: %v", err)
	}
	return svc
}

func TestCreateAndReadBack(t *testing.T) {
	t.Parallel()

	repo := newStubPublicationRepo()
	svc := newBulletinService(t, repo)

	dto, err := svc.Create(context.Background(), 4, CreateInput{
		Title: "Vendo bicicleta",
		Body:  "Bicicleta urbana aro 28, buen estado, entrego en el campus.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.ID == 0 || dto.Title != "Vendo bicicleta" {
		t.Fatalf("unexpected publication: %+v", dto)
	}
	if repo.stored[dto.ID].AuthorID != 4 {
		t.Fatalf("author not recorded: %+v", repo.stored[dto.ID])
	}
}

func TestUpdateOnlyByAuthorOrAdmin(t *testing.T) {
	t.Parallel()

	repo := newStubPublicationRepo()
	repo.stored[1] = &models.Publication{ID: 1, AuthorID: 4, Title: "Original", Body: "Cuerpo original del aviso"}
	svc := newBulletinService(t, repo)

	title := "Titulo corregido"
	_, err := svc.Update(context.Background(), Actor{AccountID: 9, Role: enums.RoleClient}, 1, UpdateInput{Title: &title})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for strangers, got %v", err)
	}

	dto, err := svc.Update(context.Background(), Actor{AccountID: 4, Role: enums.RoleClient}, 1, UpdateInput{Title: &title})
	if err != nil {
		t.Fatalf("author update failed: %v", err)
	}
	if dto.Title != "Titulo corregido" {
		t.Fatalf("title not applied: %+v", dto)
	}

	body := "Cuerpo moderado por el equipo de administracion."
	if _, err := svc.Update(context.Background(), Actor{AccountID: 9, Role: enums.RoleAdmin}, 1, UpdateInput{Body: &body}); err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
}

func TestDeleteUnknownPublication(t *testing.T) {
	t.Parallel()

	svc := newBulletinService(t, newStubPublicationRepo())
	err := svc.Delete(context.Background(), Actor{AccountID: 4}, 99)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteByAuthor(t *testing.T) {
	t.Parallel()

	repo := newStubPublicationRepo()
	repo.stored[1] = &models.Publication{ID: 1, AuthorID: 4, Title: "Aviso", Body: "Texto del aviso comunitario"}
	svc := newBulletinService(t, repo)

	if err := svc.Delete(context.Background(), Actor{AccountID: 4, Role: enums.RoleClient}, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != 1 {
		t.Fatalf("expected row deleted, got %+v", repo.deleted)
	}
}

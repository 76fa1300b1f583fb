package lostpets

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"regresa/internal/domain/report"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID    map[string]LostPet
	updates int
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]LostPet{}}
}

func (r *testRepo) Create(ctx context.Context, p LostPet) error {
	if _, ok := r.byID[p.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(ctx context.Context, p LostPet) error {
	if _, ok := r.byID[p.ID]; !ok {
		return ErrNotFound
	}
	r.updates++
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (LostPet, error) {
	p, ok := r.byID[id]
	if !ok {
		return LostPet{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) List(ctx context.Context, f ListFilter) ([]LostPet, error) {
	out := make([]LostPet, 0)
	for _, p := range r.byID {
		if p.Status != f.Status {
			continue
		}
		if f.Type != "" && p.Type != f.Type {
			continue
		}
		if f.Location != "" && !strings.Contains(strings.ToLower(p.Location), strings.ToLower(f.Location)) {
			continue
		}
		if f.WithImageOnly && !p.HasImage() {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]LostPet, error) {
	out := make([]LostPet, 0)
	for _, p := range r.byID {
		if p.OwnerUserID == ownerUserID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *testRepo) CountByStatus(ctx context.Context, status Status) (int, error) {
	n := 0
	for _, p := range r.byID {
		if p.Status == status {
			n++
		}
	}
	return n, nil
}

type testCleaner struct {
	deleted []string
}

func (c *testCleaner) DeleteByLostPet(ctx context.Context, lostPetID string) (int, error) {
	c.deleted = append(c.deleted, lostPetID)
	return 1, nil
}

func validInput(name string) CreateInput {
	return CreateInput{
		Name:        name,
		Type:        " Perro ",
		Color:       "dorado",
		Description: "collar rojo",
		Location:    "Parque Central",
		Contact:     report.Contact{Phone: "555-0101"},
	}
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_SetsLostAndTimestamps(t *testing.T) {
	svc := NewService(newTestRepo(), nil)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	p, err := svc.Create(context.Background(), "user-1", validInput("Max"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if p.ID == "" {
		t.Fatalf("expected generated id")
	}
	if p.Status != StatusLost {
		t.Fatalf("expected status lost, got %s", p.Status)
	}
	if p.CreatedAt != now || p.UpdatedAt != now {
		t.Fatalf("expected CreatedAt/UpdatedAt to be now")
	}
	if p.Type != "perro" {
		t.Fatalf("expected normalized type, got %q", p.Type)
	}
	if p.Contact.Preferred != report.ContactPhone {
		t.Fatalf("expected preferred contact phone, got %q", p.Contact.Preferred)
	}
}

func TestService_Create_MissingFieldNamesIt(t *testing.T) {
	cases := map[string]func(in *CreateInput){
		"petName":     func(in *CreateInput) { in.Name = " " },
		"petType":     func(in *CreateInput) { in.Type = "" },
		"petColor":    func(in *CreateInput) { in.Color = "" },
		"description": func(in *CreateInput) { in.Description = "" },
		"contactInfo": func(in *CreateInput) { in.Contact = report.Contact{Name: "Ana"} },
	}

	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			svc := NewService(newTestRepo(), nil)
			in := validInput("Max")
			mutate(&in)

			_, err := svc.Create(context.Background(), "", in)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if !strings.Contains(err.Error(), field) {
				t.Fatalf("expected error to name %s, got %q", field, err.Error())
			}
		})
	}
}

func TestService_List_LimitSemantics(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil)
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 60; i++ {
		svc.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		if _, err := svc.Create(context.Background(), "", validInput("pet")); err != nil {
			t.Fatalf("Create #%d: %v", i, err)
		}
	}

	got, err := svc.List(context.Background(), ListFilter{Limit: 0})
	if err != nil || len(got) != 0 {
		t.Fatalf("limit 0: expected empty list, got %d (%v)", len(got), err)
	}

	got, _ = svc.List(context.Background(), ListFilter{Limit: -1})
	if len(got) != DefaultListLimit {
		t.Fatalf("limit<0: expected %d, got %d", DefaultListLimit, len(got))
	}

	got, _ = svc.List(context.Background(), ListFilter{Limit: 7})
	if len(got) != 7 {
		t.Fatalf("limit 7: expected 7, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].CreatedAt.After(got[i-1].CreatedAt) {
			t.Fatalf("expected created_at desc at %d", i)
		}
	}
}

func TestService_MarkFound_IdempotentAndFiltersByStatus(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil)

	p, err := svc.Create(context.Background(), "owner-1", validInput("Luna"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, _ := svc.List(context.Background(), ListFilter{Status: StatusFound, Limit: 10})
	if len(found) != 0 {
		t.Fatalf("new report must not appear under found")
	}

	for i := 0; i < 2; i++ {
		got, err := svc.MarkFound(context.Background(), p.ID, "owner-1")
		if err != nil {
			t.Fatalf("MarkFound #%d: %v", i+1, err)
		}
		if got.Status != StatusFound {
			t.Fatalf("MarkFound #%d: expected found, got %s", i+1, got.Status)
		}
	}
	if repo.updates != 1 {
		t.Fatalf("expected a single write, got %d", repo.updates)
	}

	found, _ = svc.List(context.Background(), ListFilter{Status: StatusFound, Limit: 10})
	if len(found) != 1 {
		t.Fatalf("expected 1 found report, got %d", len(found))
	}
	open, _ := svc.List(context.Background(), ListFilter{Limit: 10})
	if len(open) != 0 {
		t.Fatalf("expected no open reports, got %d", len(open))
	}
}

func TestService_MarkFound_NotFoundAndForbidden(t *testing.T) {
	svc := NewService(newTestRepo(), nil)

	if _, err := svc.MarkFound(context.Background(), "missing", "u"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	p, _ := svc.Create(context.Background(), "owner-1", validInput("Luna"))
	if _, err := svc.MarkFound(context.Background(), p.ID, "someone-else"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestService_Update_PartialKeepsOtherFields(t *testing.T) {
	svc := NewService(newTestRepo(), nil)
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return t0 }

	p, _ := svc.Create(context.Background(), "", validInput("Charlie"))

	svc.now = func() time.Time { return t0.Add(time.Hour) }
	loc := "Centro Ciudad"
	got, err := svc.Update(context.Background(), p.ID, "anyone", UpdateInput{Location: &loc})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Location != loc || got.Name != "Charlie" || got.Color != "dorado" {
		t.Fatalf("unexpected record after patch: %#v", got)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Fatalf("expected UpdatedAt to advance")
	}

	empty := " "
	if _, err := svc.Update(context.Background(), p.ID, "anyone", UpdateInput{Color: &empty}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty color, got %v", err)
	}
}

func TestService_Update_ClockSkewKeepsOrder(t *testing.T) {
	svc := NewService(newTestRepo(), nil)
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return t0 }
	p, _ := svc.Create(context.Background(), "", validInput("Max"))

	svc.now = func() time.Time { return t0.Add(-time.Hour) }
	got, err := svc.MarkFound(context.Background(), p.ID, "u")
	if err != nil {
		t.Fatalf("MarkFound: %v", err)
	}
	if got.UpdatedAt.Before(got.CreatedAt) {
		t.Fatalf("UpdatedAt must never precede CreatedAt")
	}
}

func TestService_Delete_CascadesMatches(t *testing.T) {
	repo := newTestRepo()
	cleaner := &testCleaner{}
	svc := NewService(repo, cleaner)

	p, _ := svc.Create(context.Background(), "", validInput("Max"))
	if err := svc.Delete(context.Background(), p.ID, "u"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(cleaner.deleted) != 1 || cleaner.deleted[0] != p.ID {
		t.Fatalf("expected matches of %s to be deleted, got %v", p.ID, cleaner.deleted)
	}
	if _, err := svc.GetByID(context.Background(), p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestService_ListCandidates_OnlyOpenWithImage(t *testing.T) {
	svc := NewService(newTestRepo(), nil)

	withImg := validInput("Max")
	withImg.ImageURL = "https://img/max.jpg"
	a, _ := svc.Create(context.Background(), "", withImg)
	_, _ = svc.Create(context.Background(), "", validInput("SinFoto"))

	closed := validInput("Luna")
	closed.ImageURL = "https://img/luna.jpg"
	c, _ := svc.Create(context.Background(), "", closed)
	_, _ = svc.MarkFound(context.Background(), c.ID, "u")

	got, err := svc.ListCandidates(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListCandidates: %v", err)
	}
	if len(got) != 1 || got[0].ID != a.ID {
		t.Fatalf("expected only %s, got %#v", a.ID, got)
	}
}

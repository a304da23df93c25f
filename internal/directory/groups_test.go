package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/samedayramps/tiny-church-app/internal/domain"
)

func groupColumns() []string {
	return []string{"id", "name", "description", "group_type", "created_at", "member_count"}
}

func TestCreateGroupGeneratesID(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO groups").
		WillReturnResult(sqlmock.NewResult(1, 1))

	g := &domain.Group{Name: "Choir"}
	if err := store.CreateGroup(context.Background(), g); err != nil {
		t.Fatalf("create: %v", err)
	}
	if g.ID == "" {
		t.Error("expected generated id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreateGroupValidation(t *testing.T) {
	store, _, cleanup := setupMock(t)
	defer cleanup()

	if err := store.CreateGroup(context.Background(), &domain.Group{}); !errors.Is(err, domain.ErrGroupNameRequired) {
		t.Errorf("expected name-required error, got %v", err)
	}
}

func TestGetGroupMemberCount(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	rows := sqlmock.NewRows(groupColumns()).
		AddRow("g1", "Choir", "Sunday choir", "ministry", time.Now(), 7)
	mock.ExpectQuery("SELECT g.id, g.name").
		WithArgs("g1").
		WillReturnRows(rows)

	g, err := store.GetGroup(context.Background(), "g1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if g.MemberCount != 7 {
		t.Errorf("expected member count 7, got %d", g.MemberCount)
	}
}

func TestListGroupsSearch(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	rows := sqlmock.NewRows(groupColumns()).
		AddRow("g1", "Choir", "", "ministry", time.Now(), 3)
	mock.ExpectQuery("SELECT g.id, g.name(.+)WHERE g.name ILIKE").
		WithArgs("%cho%").
		WillReturnRows(rows)

	got, err := store.ListGroups(context.Background(), "cho")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Choir" {
		t.Errorf("unexpected groups %v", got)
	}
}

func TestDeleteGroupNotFound(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectExec("DELETE FROM groups").
		WithArgs("nope").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := store.DeleteGroup(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAddGroupMemberAlreadyLinked(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO member_groups").
		WithArgs("m1", "g1").
		WillReturnError(&pq.Error{Code: "23505"})

	if err := store.AddGroupMember(context.Background(), "g1", "m1"); !errors.Is(err, ErrAlreadyLinked) {
		t.Errorf("expected ErrAlreadyLinked, got %v", err)
	}
}

func TestRemoveGroupMember(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectExec("DELETE FROM member_groups").
		WithArgs("m1", "g1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.RemoveGroupMember(context.Background(), "g1", "m1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

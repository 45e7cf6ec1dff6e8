package scope

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"forecastcrm/internal/models"
	"forecastcrm/internal/repository"
)

// teamRepo stubs the single repository method scope resolution touches.
type teamRepo struct {
	repository.Repository
	members map[string][]string
}

func (r teamRepo) ListUserIDsByTeam(ctx context.Context, teamID string) ([]string, error) {
	return r.members[teamID], nil
}

func strPtr(s string) *string { return &s }

func TestResolve(t *testing.T) {
	repo := teamRepo{members: map[string][]string{
		"team-1": {"user-manager", "user-rep", "user-rep2"},
		"team-2": {"user-rep3"},
	}}
	cases := []struct {
		name string
		user *models.User
		want Scope
	}{
		{
			"admin sees all",
			&models.User{ID: "user-admin", Role: models.RoleAdmin},
			Scope{All: true},
		},
		{
			"rep sees own",
			&models.User{ID: "user-rep", Role: models.RoleRep},
			Scope{OwnerIDs: []string{"user-rep"}},
		},
		{
			"manager sees team",
			&models.User{ID: "user-manager", Role: models.RoleManager, TeamID: strPtr("team-1")},
			Scope{OwnerIDs: []string{"user-manager", "user-rep", "user-rep2"}},
		},
		{
			"manager outside own team list is included",
			&models.User{ID: "user-boss", Role: models.RoleManager, TeamID: strPtr("team-2")},
			Scope{OwnerIDs: []string{"user-rep3", "user-boss"}},
		},
		{
			"teamless manager sees all",
			&models.User{ID: "user-manager", Role: models.RoleManager},
			Scope{All: true},
		},
	}
	for _, tc := range cases {
		got, err := Resolve(context.Background(), repo, tc.user)
		if err != nil {
			t.Fatalf("%s: Resolve error: %v", tc.name, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s: Resolve = %+v, want %+v", tc.name, got, tc.want)
		}
	}
}

func TestResolveNilUser(t *testing.T) {
	repo := teamRepo{}
	_, err := Resolve(context.Background(), repo, nil)
	if !errors.Is(err, ErrNoUser) {
		t.Fatalf("Resolve(nil user) err = %v, want ErrNoUser", err)
	}
}

func TestAllows(t *testing.T) {
	all := Scope{All: true}
	if !all.Allows("anyone") {
		t.Fatal("all scope must allow every owner")
	}
	team := Scope{OwnerIDs: []string{"a", "b"}}
	if !team.Allows("b") {
		t.Fatal("scoped owner should be allowed")
	}
	if team.Allows("c") {
		t.Fatal("owner outside scope should be denied")
	}
}

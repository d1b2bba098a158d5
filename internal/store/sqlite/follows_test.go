package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/inkwellapp/inkwell-server/internal/store"
)

func TestFollowLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, s, "alice")
	bob := createTestUser(t, s, "bob")

	if err := s.CreateFollow(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if err := s.CreateFollow(ctx, alice.ID, bob.ID); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("repeat follow: got %v, want ErrAlreadyExists", err)
	}

	following, err := s.IsFollowing(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("is following: %v", err)
	}
	if !following {
		t.Error("expected alice to follow bob")
	}

	// Direction matters.
	reverse, err := s.IsFollowing(ctx, bob.ID, alice.ID)
	if err != nil {
		t.Fatalf("is following: %v", err)
	}
	if reverse {
		t.Error("bob should not follow alice")
	}

	if err := s.DeleteFollow(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	if err := s.DeleteFollow(ctx, alice.ID, bob.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("repeat unfollow: got %v, want ErrNotFound", err)
	}
}

func TestSelfFollowRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, s, "alice")

	if err := s.CreateFollow(ctx, alice.ID, alice.ID); !errors.Is(err, store.ErrInvalidInput) {
		t.Errorf("self follow: got %v, want ErrInvalidInput", err)
	}
}

func TestFollowCounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	writer := createTestUser(t, s, "writer")
	fan1 := createTestUser(t, s, "fan1")
	fan2 := createTestUser(t, s, "fan2")

	if err := s.CreateFollow(ctx, fan1.ID, writer.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if err := s.CreateFollow(ctx, fan2.ID, writer.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if err := s.CreateFollow(ctx, writer.ID, fan1.ID); err != nil {
		t.Fatalf("follow back: %v", err)
	}

	followers, err := s.CountFollowers(ctx, writer.ID)
	if err != nil {
		t.Fatalf("count followers: %v", err)
	}
	if followers != 2 {
		t.Errorf("got %d followers, want 2", followers)
	}

	following, err := s.CountFollowing(ctx, writer.ID)
	if err != nil {
		t.Fatalf("count following: %v", err)
	}
	if following != 1 {
		t.Errorf("got %d following, want 1", following)
	}
}

func TestListFollowersProfiles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	writer := createTestUser(t, s, "writer")
	fan := createTestUser(t, s, "fan")

	if err := s.CreateFollow(ctx, fan.ID, writer.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}

	followers, err := s.ListFollowers(ctx, writer.ID)
	if err != nil {
		t.Fatalf("list followers: %v", err)
	}
	if len(followers) != 1 {
		t.Fatalf("got %d followers, want 1", len(followers))
	}
	if followers[0].Username != "fan" {
		t.Errorf("got follower %q, want fan", followers[0].Username)
	}

	ids, err := s.ListFollowerIDs(ctx, writer.ID)
	if err != nil {
		t.Fatalf("list follower ids: %v", err)
	}
	if len(ids) != 1 || ids[0] != fan.ID {
		t.Errorf("got follower ids %v, want [%s]", ids, fan.ID)
	}
}

package database

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"chronicle/internal/core/apperr"
	"chronicle/internal/core/comment"
	"chronicle/internal/core/follower"
	"chronicle/internal/core/group"
	"chronicle/internal/core/post"
	"chronicle/internal/core/user"
	feedPort "chronicle/internal/ports/feed"
	"chronicle/internal/testutil"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func mustUser(t *testing.T, db *gorm.DB, username string) *user.User {
	t.Helper()
	u, err := NewUserRepositoryDatabase(db).Create(context.Background(), &user.User{Username: username, Password: "x"})
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func mustGroup(t *testing.T, db *gorm.DB, slug string) *group.Group {
	t.Helper()
	g, err := NewGroupRepositoryDatabase(db).Create(context.Background(), &group.Group{Title: slug, Slug: slug, Description: "d"})
	if err != nil {
		t.Fatalf("create group %s: %v", slug, err)
	}
	return g
}

func mustPost(t *testing.T, db *gorm.DB, author *user.User, g *group.Group, at time.Time, text string) *post.Post {
	t.Helper()
	p := &post.Post{Text: text, UserID: author.ID, CreatedAt: at}
	if g != nil {
		id := g.ID
		p.GroupID = &id
	}
	created, err := NewPostRepositoryDatabase(db).Create(context.Background(), p)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return created
}

func TestUserRepositoryNotFound(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepositoryDatabase(db)

	_, err := repo.FindByUsername(context.Background(), "ghost")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	_, err = repo.FindByID(context.Background(), uuid.Must(uuid.NewV4()).String())
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUserRepositoryDuplicateUsername(t *testing.T) {
	db := testutil.NewDB(t)
	mustUser(t, db, "leo")

	_, err := NewUserRepositoryDatabase(db).Create(context.Background(), &user.User{Username: "leo", Password: "y"})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestGroupRepositoryDuplicateSlug(t *testing.T) {
	db := testutil.NewDB(t)
	mustGroup(t, db, "cats")

	_, err := NewGroupRepositoryDatabase(db).Create(context.Background(), &group.Group{Title: "Cats", Slug: "cats", Description: "d"})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	alice := mustUser(t, db, "alice")
	bob := mustUser(t, db, "bob")

	p := mustPost(t, db, alice, nil, base, "hello")
	other := mustPost(t, db, bob, nil, base.Add(time.Second), "bob's")
	posts := NewPostRepositoryDatabase(db)
	if _, err := posts.AddComment(ctx, &comment.Comment{PostID: other.ID, UserID: alice.ID, Text: "nice"}); err != nil {
		t.Fatalf("comment: %v", err)
	}
	follows := NewFollowerRepositoryDatabase(db)
	if err := follows.FollowUser(ctx, &follower.Follower{FollowerID: bob.ID, AuthorID: alice.ID}); err != nil {
		t.Fatalf("follow: %v", err)
	}

	if err := NewUserRepositoryDatabase(db).Delete(ctx, alice.ID.String()); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := posts.FindByID(ctx, p.ID.String()); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("post survived author deletion: %v", err)
	}
	comments, err := posts.FindComments(ctx, other.ID.String())
	if err != nil || len(comments) != 0 {
		t.Fatalf("comments = %d (%v), want 0", len(comments), err)
	}
	following, err := follows.GetFollowingByUserID(ctx, bob.ID.String())
	if err != nil || len(following) != 0 {
		t.Fatalf("following = %d (%v), want 0", len(following), err)
	}
}

func TestDeleteGroupKeepsPosts(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	alice := mustUser(t, db, "alice")
	g := mustGroup(t, db, "cats")
	p := mustPost(t, db, alice, g, base, "meow")

	if err := NewGroupRepositoryDatabase(db).Delete(ctx, g.ID.String()); err != nil {
		t.Fatalf("delete group: %v", err)
	}

	got, err := NewPostRepositoryDatabase(db).FindByID(ctx, p.ID.String())
	if err != nil {
		t.Fatalf("post lost with its group: %v", err)
	}
	if got.GroupID != nil || got.Group != nil {
		t.Fatalf("group reference = %v, want nil", got.GroupID)
	}
}

func TestFollowUserIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	a := mustUser(t, db, "a")
	b := mustUser(t, db, "b")
	repo := NewFollowerRepositoryDatabase(db)

	for i := 0; i < 3; i++ {
		if err := repo.FollowUser(ctx, &follower.Follower{FollowerID: a.ID, AuthorID: b.ID}); err != nil {
			t.Fatalf("follow #%d: %v", i, err)
		}
	}
	followers, err := repo.GetFollowersByUserID(ctx, b.ID.String())
	if err != nil {
		t.Fatalf("followers: %v", err)
	}
	if len(followers) != 1 {
		t.Fatalf("edges = %d, want 1", len(followers))
	}

	ok, _ := repo.IsFollowing(ctx, a.ID.String(), b.ID.String())
	if !ok {
		t.Fatal("IsFollowing = false after follow")
	}
	if err := repo.UnfollowUser(ctx, a.ID.String(), b.ID.String()); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	if err := repo.UnfollowUser(ctx, a.ID.String(), b.ID.String()); err != nil {
		t.Fatalf("second unfollow: %v", err)
	}
	ok, _ = repo.IsFollowing(ctx, a.ID.String(), b.ID.String())
	if ok {
		t.Fatal("IsFollowing = true after unfollow")
	}
}

func TestFeedRepositoryFilters(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	alice := mustUser(t, db, "alice")
	bob := mustUser(t, db, "bob")
	carol := mustUser(t, db, "carol")
	cats := mustGroup(t, db, "cats")

	for i := 0; i < 4; i++ {
		mustPost(t, db, alice, cats, base.Add(time.Duration(i)*time.Minute), fmt.Sprintf("alice %d", i))
	}
	mustPost(t, db, bob, nil, base.Add(10*time.Minute), "bob")
	mustPost(t, db, carol, cats, base.Add(20*time.Minute), "carol")

	if err := NewFollowerRepositoryDatabase(db).FollowUser(ctx, &follower.Follower{FollowerID: carol.ID, AuthorID: alice.ID}); err != nil {
		t.Fatalf("follow: %v", err)
	}

	repo := NewFeedRepositoryDatabase(db)
	cases := []struct {
		name   string
		filter feedPort.Filter
		want   int64
		first  string
	}{
		{"global", feedPort.Filter{}, 6, "carol"},
		{"group", feedPort.Filter{GroupID: cats.ID.String()}, 5, "carol"},
		{"author", feedPort.Filter{AuthorID: bob.ID.String()}, 1, "bob"},
		{"follow", feedPort.Filter{FollowerID: carol.ID.String()}, 4, "alice 3"},
		{"follow nobody", feedPort.Filter{FollowerID: bob.ID.String()}, 0, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			n, err := repo.CountPosts(ctx, c.filter)
			if err != nil {
				t.Fatalf("count: %v", err)
			}
			if n != c.want {
				t.Fatalf("count = %d, want %d", n, c.want)
			}
			posts, err := repo.ListPosts(ctx, c.filter, 0, 10)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if int64(len(posts)) != c.want {
				t.Fatalf("len = %d, want %d", len(posts), c.want)
			}
			if c.want > 0 && posts[0].Text != c.first {
				t.Fatalf("first = %q, want %q", posts[0].Text, c.first)
			}
			for i := 1; i < len(posts); i++ {
				if posts[i].CreatedAt.After(posts[i-1].CreatedAt) {
					t.Fatalf("posts not newest first at %d", i)
				}
			}
		})
	}
}

func TestFeedRepositoryFollowScopeHonoursContext(t *testing.T) {
	db := testutil.NewDB(t)
	alice := mustUser(t, db, "alice")
	mustPost(t, db, alice, nil, base, "hello")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := NewFeedRepositoryDatabase(db)
	if _, err := repo.CountPosts(ctx, feedPort.Filter{FollowerID: alice.ID.String()}); !errors.Is(err, context.Canceled) {
		t.Fatalf("count with cancelled context: err = %v, want context.Canceled", err)
	}
	if _, err := repo.ListPosts(ctx, feedPort.Filter{FollowerID: alice.ID.String()}, 0, 10); !errors.Is(err, context.Canceled) {
		t.Fatalf("list with cancelled context: err = %v, want context.Canceled", err)
	}
}

func TestFeedRepositoryWindowAndPreload(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	alice := mustUser(t, db, "alice")
	cats := mustGroup(t, db, "cats")
	for i := 0; i < 13; i++ {
		mustPost(t, db, alice, cats, base.Add(time.Duration(i)*time.Second), fmt.Sprintf("p%02d", i))
	}

	repo := NewFeedRepositoryDatabase(db)
	page2, err := repo.ListPosts(ctx, feedPort.Filter{}, 10, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page2) != 3 || page2[0].Text != "p02" || page2[2].Text != "p00" {
		t.Fatalf("second page = %d posts starting %q", len(page2), page2[0].Text)
	}
	if page2[0].User.Username != "alice" || page2[0].Group == nil || page2[0].Group.Slug != "cats" {
		t.Fatalf("associations not preloaded: %+v", page2[0])
	}
}

func TestPostRepositoryUpdateKeepsCreatedAt(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	alice := mustUser(t, db, "alice")
	p := mustPost(t, db, alice, nil, base, "draft")

	repo := NewPostRepositoryDatabase(db)
	p.Text = "final"
	p.UpdatedAt = base.Add(time.Hour)
	if err := repo.Update(ctx, p); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := repo.FindByID(ctx, p.ID.String())
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Text != "final" || !got.CreatedAt.Equal(base) {
		t.Fatalf("got text %q created %v", got.Text, got.CreatedAt)
	}

	count, _ := repo.CountByUserID(ctx, alice.ID.String())
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}

func TestStatsRepositoryCounts(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	a := mustUser(t, db, "a")
	b := mustUser(t, db, "b")
	g := mustGroup(t, db, "g")
	p := mustPost(t, db, a, g, base, "x")
	if _, err := NewPostRepositoryDatabase(db).AddComment(ctx, &comment.Comment{PostID: p.ID, UserID: b.ID, Text: "c"}); err != nil {
		t.Fatalf("comment: %v", err)
	}
	if err := NewFollowerRepositoryDatabase(db).FollowUser(ctx, &follower.Follower{FollowerID: b.ID, AuthorID: a.ID}); err != nil {
		t.Fatalf("follow: %v", err)
	}

	counts, err := NewStatsRepositoryDatabase(db).Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts.Users != 2 || counts.Groups != 1 || counts.Posts != 1 || counts.Comments != 1 || counts.Follows != 1 {
		t.Fatalf("counts = %+v", counts)
	}
}

func TestIsDuplicateKeyIgnoresOtherErrors(t *testing.T) {
	if IsDuplicateKey(nil) || IsDuplicateKey(errors.New("boom")) || IsDuplicateKey(gorm.ErrRecordNotFound) {
		t.Fatal("unexpected duplicate key match")
	}
	if !IsDuplicateKey(fmt.Errorf("wrap: %w", gorm.ErrDuplicatedKey)) {
		t.Fatal("wrapped gorm.ErrDuplicatedKey not matched")
	}
}

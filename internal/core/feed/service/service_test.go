package feedapp

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"chronicle/internal/adapters/database"
	"chronicle/internal/core/apperr"
	"chronicle/internal/core/follower"
	"chronicle/internal/core/group"
	"chronicle/internal/core/post"
	"chronicle/internal/core/user"
	"chronicle/internal/testutil"

	"gorm.io/gorm"
)

type world struct {
	db    *gorm.DB
	svc   *FeedService
	clock time.Time
	users map[string]*user.User
	group map[string]*group.Group
}

func newWorld(t *testing.T) *world {
	t.Helper()
	db := testutil.NewDB(t)
	return &world{
		db: db,
		svc: NewFeedService(
			database.NewFeedRepositoryDatabase(db),
			database.NewUserRepositoryDatabase(db),
			database.NewGroupRepositoryDatabase(db),
			database.NewFollowerRepositoryDatabase(db),
			10,
		),
		clock: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		users: map[string]*user.User{},
		group: map[string]*group.Group{},
	}
}

func (w *world) user(t *testing.T, name string) *user.User {
	t.Helper()
	if u, ok := w.users[name]; ok {
		return u
	}
	u, err := database.NewUserRepositoryDatabase(w.db).Create(context.Background(), &user.User{Username: name, Password: "x"})
	if err != nil {
		t.Fatal(err)
	}
	w.users[name] = u
	return u
}

func (w *world) groupOf(t *testing.T, slug string) *group.Group {
	t.Helper()
	if g, ok := w.group[slug]; ok {
		return g
	}
	g, err := database.NewGroupRepositoryDatabase(w.db).Create(context.Background(), &group.Group{Title: slug, Slug: slug, Description: slug})
	if err != nil {
		t.Fatal(err)
	}
	w.group[slug] = g
	return g
}

func (w *world) post(t *testing.T, author, slug, text string) {
	t.Helper()
	w.clock = w.clock.Add(time.Minute)
	p := &post.Post{Text: text, UserID: w.user(t, author).ID, CreatedAt: w.clock}
	if slug != "" {
		id := w.groupOf(t, slug).ID
		p.GroupID = &id
	}
	if _, err := database.NewPostRepositoryDatabase(w.db).Create(context.Background(), p); err != nil {
		t.Fatal(err)
	}
}

func (w *world) follow(t *testing.T, who, whom string) {
	t.Helper()
	err := database.NewFollowerRepositoryDatabase(w.db).FollowUser(context.Background(), &follower.Follower{
		FollowerID: w.user(t, who).ID,
		AuthorID:   w.user(t, whom).ID,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestGlobalFeedThirteenPosts(t *testing.T) {
	w := newWorld(t)
	for i := 0; i < 13; i++ {
		w.post(t, "leo", "", fmt.Sprintf("post %d", i))
	}
	ctx := context.Background()

	first, err := w.svc.GlobalFeed(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Posts) != 10 || first.Posts[0].Text != "post 12" || !first.Page.HasNext {
		t.Fatalf("page 1: %d posts, first %q, page %+v", len(first.Posts), first.Posts[0].Text, first.Page)
	}

	second, err := w.svc.GlobalFeed(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(second.Posts) != 3 || second.Posts[2].Text != "post 0" || second.Page.HasNext {
		t.Fatalf("page 2: %d posts, page %+v", len(second.Posts), second.Page)
	}

	beyond, _ := w.svc.GlobalFeed(ctx, 99)
	if beyond.Page.Number != 2 || len(beyond.Posts) != 3 {
		t.Fatalf("page 99 = %+v, want clipped to 2", beyond.Page)
	}
	invalid, _ := w.svc.GlobalFeed(ctx, 0)
	if invalid.Page.Number != 1 {
		t.Fatalf("page 0 = %+v, want 1", invalid.Page)
	}
}

func TestGlobalFeedEmpty(t *testing.T) {
	w := newWorld(t)
	got, err := w.svc.GlobalFeed(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Posts) != 0 || got.Page.NumPages != 1 || got.Page.Number != 1 {
		t.Fatalf("empty feed = %+v", got)
	}
	if got.Posts == nil {
		t.Fatal("posts must render as [] not null")
	}
}

func TestGroupFeedHasNoLeakage(t *testing.T) {
	w := newWorld(t)
	w.post(t, "leo", "cats", "meow")
	w.post(t, "leo", "dogs", "woof")
	w.post(t, "anna", "", "no group")
	w.post(t, "anna", "cats", "purr")
	ctx := context.Background()

	cats, err := w.svc.GroupFeed(ctx, "cats", 1)
	if err != nil {
		t.Fatal(err)
	}
	if cats.Group.Slug != "cats" || len(cats.Posts) != 2 {
		t.Fatalf("cats feed = %+v", cats)
	}
	for _, p := range cats.Posts {
		if p.Group == nil || p.Group.Slug != "cats" {
			t.Fatalf("post %q leaked into cats", p.Text)
		}
	}
	if cats.Posts[0].Text != "purr" {
		t.Fatalf("first = %q, want newest", cats.Posts[0].Text)
	}

	dogs, _ := w.svc.GroupFeed(ctx, "dogs", 1)
	if len(dogs.Posts) != 1 || dogs.Posts[0].Text != "woof" {
		t.Fatalf("dogs feed = %+v", dogs.Posts)
	}

	if _, err := w.svc.GroupFeed(ctx, "birds", 1); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("unknown group err = %v", err)
	}
}

func TestProfileFeed(t *testing.T) {
	w := newWorld(t)
	w.post(t, "leo", "", "one")
	w.post(t, "leo", "", "two")
	w.post(t, "anna", "", "other")
	w.follow(t, "anna", "leo")
	ctx := context.Background()

	anon, err := w.svc.ProfileFeed(ctx, "leo", "", 1)
	if err != nil {
		t.Fatal(err)
	}
	if anon.PostsCount != 2 || anon.Following || anon.Author.Username != "leo" {
		t.Fatalf("anonymous profile = %+v", anon)
	}
	if anon.Posts[0].Text != "two" {
		t.Fatalf("first = %q", anon.Posts[0].Text)
	}

	viewed, _ := w.svc.ProfileFeed(ctx, "leo", w.user(t, "anna").ID.String(), 1)
	if !viewed.Following {
		t.Fatal("anna follows leo but Following = false")
	}
	self, _ := w.svc.ProfileFeed(ctx, "leo", w.user(t, "leo").ID.String(), 1)
	if self.Following {
		t.Fatal("own profile reports Following")
	}

	if _, err := w.svc.ProfileFeed(ctx, "nobody", "", 1); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("unknown profile err = %v", err)
	}
}

func TestFollowFeedShowsFollowedAuthorsOnly(t *testing.T) {
	w := newWorld(t)
	w.user(t, "reader")
	w.post(t, "leo", "", "by leo")
	w.post(t, "anna", "", "by anna")
	ctx := context.Background()
	reader := w.user(t, "reader").ID.String()

	empty, err := w.svc.FollowFeed(ctx, reader, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(empty.Posts) != 0 {
		t.Fatalf("follow feed before following = %d posts", len(empty.Posts))
	}

	w.follow(t, "reader", "leo")
	got, _ := w.svc.FollowFeed(ctx, reader, 1)
	if len(got.Posts) != 1 || got.Posts[0].Text != "by leo" {
		t.Fatalf("follow feed = %+v", got.Posts)
	}

	w.post(t, "leo", "", "new by leo")
	got, _ = w.svc.FollowFeed(ctx, reader, 1)
	if len(got.Posts) != 2 || got.Posts[0].Text != "new by leo" {
		t.Fatalf("new post missing from follow feed: %+v", got.Posts)
	}

	// anna does not follow leo, so leo's post is not in her feed
	annaFeed, _ := w.svc.FollowFeed(ctx, w.user(t, "anna").ID.String(), 1)
	if len(annaFeed.Posts) != 0 {
		t.Fatalf("anna's feed = %+v", annaFeed.Posts)
	}

	if _, err := w.svc.FollowFeed(ctx, "", 1); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("anonymous err = %v", err)
	}
}

func TestNewFeedServiceDefaultsPerPage(t *testing.T) {
	if got := NewFeedService(nil, nil, nil, nil, 0).PerPage(); got != 10 {
		t.Fatalf("per page = %d, want 10", got)
	}
}

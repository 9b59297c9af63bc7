// Command feedbench seeds users, follows and posts, then measures feed read
// latency under concurrent load.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	dbadapter "chronicle/internal/adapters/database"
	"chronicle/internal/config"
	feedapp "chronicle/internal/core/feed/service"
	followerapp "chronicle/internal/core/follower/service"
	postapp "chronicle/internal/core/post/service"
	userapp "chronicle/internal/core/user/service"
	"chronicle/internal/pagecache"

	"github.com/HdrHistogram/hdrhistogram-go"
	"go.uber.org/zap"
)

type result struct {
	Requests int64
	Errors   int64
	P50      time.Duration
	P95      time.Duration
	P99      time.Duration
}

func main() {
	var exitCode int
	defer func() {
		os.Exit(exitCode)
	}()

	configPath := flag.String("config", "config.yaml", "config file")
	numUsers := flag.Int("users", 200, "number of users to seed")
	postsPerUser := flag.Int("posts", 10, "posts per seeded user")
	followsPerUser := flag.Int("follows", 20, "authors each seeded user follows")
	workload := flag.String("feed", "follow", "feed to read: follow, global, global_cached or profile")
	concurrency := flag.Int("concurrency", 50, "number of concurrent readers")
	duration := flag.Duration("duration", 15*time.Second, "duration of the read phase")
	skipSeed := flag.Bool("skip-seed", false, "reuse users created by a previous run")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		exitCode = 1
		return
	}
	config.InitLogger(cfg.Log)
	config.InitDB(cfg.Database)
	logger := config.Logger

	userRepo := dbadapter.NewUserRepositoryDatabase(config.DB)
	groupRepo := dbadapter.NewGroupRepositoryDatabase(config.DB)
	followerRepo := dbadapter.NewFollowerRepositoryDatabase(config.DB)
	userSvc := userapp.NewUserService(userRepo, []byte(cfg.Auth.JWTSecret), nil)
	postSvc := postapp.NewPostService(dbadapter.NewPostRepositoryDatabase(config.DB), groupRepo)
	followerSvc := followerapp.NewFollowerService(followerRepo, userRepo)
	feedSvc := feedapp.NewFeedService(dbadapter.NewFeedRepositoryDatabase(config.DB), userRepo, groupRepo, followerRepo, cfg.Feed.PostsPerPage)

	ctx := context.Background()
	var userIDs []string
	if *skipSeed {
		userIDs = existingUsers(ctx, logger, userSvc, *numUsers)
	} else {
		userIDs = seed(ctx, logger, userSvc, postSvc, followerSvc, *numUsers, *postsPerUser, *followsPerUser)
	}
	if len(userIDs) == 0 {
		logger.Error("❌ No users available, nothing to measure")
		exitCode = 1
		return
	}

	var read func(ctx context.Context, rnd *rand.Rand) error
	switch *workload {
	case "follow":
		read = func(ctx context.Context, rnd *rand.Rand) error {
			_, err := feedSvc.FollowFeed(ctx, userIDs[rnd.Intn(len(userIDs))], 1)
			return err
		}
	case "global":
		read = func(ctx context.Context, rnd *rand.Rand) error {
			_, err := feedSvc.GlobalFeed(ctx, 1+rnd.Intn(5))
			return err
		}
	case "global_cached":
		store, _ := pagecache.NewMemoryStore(1)
		cache := pagecache.New(store, cfg.PageCache.TTL)
		read = func(ctx context.Context, _ *rand.Rand) error {
			_, err := cache.Fetch(ctx, pagecache.IndexPageKey, func(ctx context.Context) ([]byte, error) {
				page, err := feedSvc.GlobalFeed(ctx, 1)
				if err != nil {
					return nil, err
				}
				return []byte(fmt.Sprint(len(page.Posts))), nil
			})
			return err
		}
	case "profile":
		read = func(ctx context.Context, rnd *rand.Rand) error {
			_, err := feedSvc.ProfileFeed(ctx, benchUsername(rnd.Intn(len(userIDs))), "", 1)
			return err
		}
	default:
		logger.Error("❌ Unknown feed", zap.String("feed", *workload))
		exitCode = 1
		return
	}

	res := run(ctx, read, *concurrency, *duration)
	logger.Info("✅ Benchmark finished",
		zap.String("feed", *workload),
		zap.Int("concurrency", *concurrency),
		zap.Duration("duration", *duration),
		zap.Int64("requests", res.Requests),
		zap.Int64("errors", res.Errors),
		zap.Duration("p50", res.P50),
		zap.Duration("p95", res.P95),
		zap.Duration("p99", res.P99),
	)
	fmt.Printf("%s: %d requests, %d errors, p50=%s p95=%s p99=%s\n",
		*workload, res.Requests, res.Errors, res.P50, res.P95, res.P99)
}

func benchUsername(i int) string {
	return fmt.Sprintf("benchuser%d", i)
}

func seed(
	ctx context.Context,
	logger *zap.Logger,
	userSvc *userapp.UserService,
	postSvc *postapp.PostService,
	followerSvc *followerapp.FollowerService,
	numUsers, postsPerUser, followsPerUser int,
) []string {
	logger.Info("🚀 Seeding users...", zap.Int("users", numUsers))
	userIDs := make([]string, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		u, err := userSvc.RegisterUser(ctx, "Bench", fmt.Sprint(i), benchUsername(i), "password")
		if err != nil {
			logger.Error("❌ Error creating user", zap.String("username", benchUsername(i)), zap.Error(err))
			continue
		}
		userIDs = append(userIDs, u.ID)
		if (i+1)%50 == 0 {
			logger.Info("✅ Created users so far", zap.Int("count", i+1))
		}
	}

	logger.Info("🚀 Starting follow setup...")
	follows := 0
	for i, followerID := range userIDs {
		for k := 1; k <= followsPerUser && k < numUsers; k++ {
			author := benchUsername((i + k) % numUsers)
			if err := followerSvc.Follow(ctx, followerID, author); err != nil {
				logger.Error("❌ Error: user could not follow", zap.String("followerID", followerID), zap.String("author", author), zap.Error(err))
				continue
			}
			follows++
		}
	}
	logger.Info("✅ Follow setup completed", zap.Int("count", follows))

	logger.Info("🚀 Starting post creation...")
	posts := 0
	for _, uid := range userIDs {
		for p := 1; p <= postsPerUser; p++ {
			if _, err := postSvc.CreatePost(ctx, uid, postapp.PostInput{Text: fmt.Sprintf("Post %d by %s", p, uid)}); err != nil {
				logger.Error("❌ Error creating post", zap.String("userID", uid), zap.Error(err))
				continue
			}
			posts++
			if posts%500 == 0 {
				logger.Info("➡️ Created posts so far", zap.Int("count", posts))
			}
		}
	}
	logger.Info("✅ Seed completed", zap.Int("users", len(userIDs)), zap.Int("posts", posts))
	return userIDs
}

func existingUsers(ctx context.Context, logger *zap.Logger, userSvc *userapp.UserService, numUsers int) []string {
	ids := make([]string, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		u, err := userSvc.GetByUsername(ctx, benchUsername(i))
		if err != nil {
			continue
		}
		ids = append(ids, u.ID)
	}
	logger.Info("Reusing seeded users", zap.Int("count", len(ids)))
	return ids
}

// run calls read from concurrency goroutines until duration elapses and
// records each call's latency in microseconds.
func run(ctx context.Context, read func(context.Context, *rand.Rand) error, concurrency int, duration time.Duration) result {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		requests int64
		errs     int64
	)
	histogram := hdrhistogram.New(1, int64(time.Minute/time.Microsecond), 3)
	deadline := time.Now().Add(duration)

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(seed))
			for time.Now().Before(deadline) {
				startTime := time.Now()
				err := read(ctx, rnd)
				elapsed := time.Since(startTime).Microseconds()

				mu.Lock()
				requests++
				if err != nil {
					errs++
				} else {
					_ = histogram.RecordValue(elapsed)
				}
				mu.Unlock()
			}
		}(time.Now().UnixNano() + int64(i))
	}
	wg.Wait()

	return result{
		Requests: requests,
		Errors:   errs,
		P50:      time.Duration(histogram.ValueAtQuantile(50)) * time.Microsecond,
		P95:      time.Duration(histogram.ValueAtQuantile(95)) * time.Microsecond,
		P99:      time.Duration(histogram.ValueAtQuantile(99)) * time.Microsecond,
	}
}

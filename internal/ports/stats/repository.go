package stats

import "context"

type Counts struct {
	Users    int64
	Groups   int64
	Posts    int64
	Comments int64
	Follows  int64
}

type StatsRepository interface {
	Counts(ctx context.Context) (Counts, error)
}

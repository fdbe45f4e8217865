package core

// WaitTime bounds request-scoped operations, in seconds.
const WaitTime = 10

// DefaultSort orders listings most-recent-first.
const DefaultSort = "-created_at"

type OrderParams struct {
	Port int
}

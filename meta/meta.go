// meta/meta.go
package meta

import "time"

// ROLLOUTS defines the number of rollouts per atomic for MCTS agents.
const ROLLOUTS = 2000

// WITH_CUTOFF defines the cutoff value for MCTS rollouts.
const WITH_CUTOFF = 2000

// MAX_TURNS caps the atomics of a self-play game.
const MAX_TURNS = 1000

// ROLLOUT_BATCH_SIZE defines the rollouts a worker performs per tick.
const ROLLOUT_BATCH_SIZE = 5000

// POST_INTERVAL defines the minimum time between worker notifications.
const POST_INTERVAL = 200 * time.Millisecond

// UNCERTAINTY_THRESHOLD defines how close to 0 or 1 the root mean must be
// before a worker declares the position decided.
const UNCERTAINTY_THRESHOLD = 1e-3

// TERMINAL_MIN_ROLLOUTS defines the rollouts needed before a worker may
// declare the position decided.
const TERMINAL_MIN_ROLLOUTS = 1_000_000

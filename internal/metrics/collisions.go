package metrics

import "github.com/san-kum/orbitsim/internal/dynamo"

// CollisionRate is the mean number of resolved collisions per tick.
type CollisionRate struct {
	name    string
	sum     int
	samples int
}

func NewCollisionRate() *CollisionRate {
	return &CollisionRate{name: "collision_rate"}
}

func (c *CollisionRate) Name() string {
	return c.name
}

func (c *CollisionRate) Observe(_ []dynamo.Particle, stats dynamo.TickStats) {
	c.sum += stats.Collisions
	c.samples++
}

func (c *CollisionRate) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.sum) / float64(c.samples)
}

func (c *CollisionRate) Reset() {
	c.sum = 0
	c.samples = 0
}

// Retention is the fraction of the first observed population still alive at
// the last observation.
type Retention struct {
	name  string
	first int
	last  int
	seen  bool
}

func NewRetention() *Retention {
	return &Retention{name: "retention"}
}

func (r *Retention) Name() string {
	return r.name
}

func (r *Retention) Observe(ps []dynamo.Particle, stats dynamo.TickStats) {
	// the first tick's losses count against retention
	if !r.seen {
		r.first = len(ps) + stats.Absorbed + stats.Escaped - stats.Spawned
		r.seen = true
	}
	r.last = len(ps)
}

func (r *Retention) Value() float64 {
	if r.first == 0 {
		return 1.0
	}
	return float64(r.last) / float64(r.first)
}

func (r *Retention) Reset() {
	r.first, r.last = 0, 0
	r.seen = false
}

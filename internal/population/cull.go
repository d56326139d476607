package population

import "github.com/san-kum/orbitsim/internal/dynamo"

// Cull removes particles inside the body or farther than escapeRadius from
// the origin. It filters ps in place and returns the shortened slice.
func Cull(ps []dynamo.Particle, body dynamo.Body, escapeRadius float64) (kept []dynamo.Particle, absorbed, escaped int) {
	limit := escapeRadius * escapeRadius
	kept = ps[:0]
	for _, p := range ps {
		switch {
		case body.Contains(p.Position):
			absorbed++
		case p.Position.LengthSq() > limit:
			escaped++
		default:
			kept = append(kept, p)
		}
	}
	clear(ps[len(kept):])
	return kept, absorbed, escaped
}

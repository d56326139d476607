package sim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/grid"
	"github.com/san-kum/orbitsim/internal/sim"
)

type snapshotRecorder struct {
	snaps []dynamo.Snapshot
}

func (r *snapshotRecorder) OnTick(s dynamo.Snapshot) { r.snaps = append(r.snaps, s) }

var _ = Describe("Simulator", func() {
	var (
		params dynamo.Params
		s      *sim.Simulator
	)

	BeforeEach(func() {
		params = dynamo.DefaultParams()
		params.TargetCount = 800
		var err error
		s, err = sim.New(params, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Reset()).To(Succeed())
	})

	It("starts at the target population", func() {
		Expect(s.Len()).To(Equal(params.TargetCount))
		Expect(s.TickCount()).To(BeZero())
	})

	Context("after a tick", func() {
		var stats dynamo.TickStats

		BeforeEach(func() {
			var err error
			stats, err = s.Tick()
			Expect(err).NotTo(HaveOccurred())
		})

		It("leaves the collection sorted by cell", func() {
			Expect(grid.IsSorted(s.Particles())).To(BeTrue())
		})

		It("keeps every cell key consistent with its position", func() {
			for _, p := range s.Particles() {
				Expect(p.Cell).To(Equal(grid.KeyOf(p.Position, params.CellSize)))
			}
		})

		It("reports the live count", func() {
			Expect(stats.Tick).To(Equal(1))
			Expect(stats.Count).To(Equal(s.Len()))
			Expect(stats.Count + stats.Absorbed + stats.Escaped).To(Equal(params.TargetCount))
		})

		It("never tests more pairs than share a cell", func() {
			Expect(stats.Collisions).To(BeNumerically("<=", stats.Tested))
			Expect(stats.Cells).To(BeNumerically("<=", stats.Count))
		})
	})

	Context("with an observer", func() {
		It("receives one independent snapshot per tick", func() {
			rec := &snapshotRecorder{}
			s.AddObserver(rec)

			for i := 0; i < 3; i++ {
				_, err := s.Tick()
				Expect(err).NotTo(HaveOccurred())
			}

			Expect(rec.snaps).To(HaveLen(3))
			Expect(rec.snaps[0].Tick).To(Equal(1))
			Expect(rec.snaps[2].Tick).To(Equal(3))
			Expect(rec.snaps[2].Instances).To(HaveLen(s.Len()))
		})
	})

	Context("when replenishment is toggled on", func() {
		It("never exceeds the target count", func() {
			s.SetReplenish(true)
			for i := 0; i < 30; i++ {
				stats, err := s.Tick()
				Expect(err).NotTo(HaveOccurred())
				Expect(stats.Count).To(BeNumerically("<=", params.TargetCount))
			}
		})
	})

	It("keeps particles near their spawn shell over a short run", func() {
		for i := 0; i < 20; i++ {
			_, err := s.Tick()
			Expect(err).NotTo(HaveOccurred())
		}
		ext := s.Extent()
		Expect(ext.MaxX).To(BeNumerically("<", params.EscapeRadius))
		Expect(ext.MaxY).To(BeNumerically("<", params.EscapeRadius))
		Expect(ext.MaxZ).To(BeNumerically("<", params.EscapeRadius))
	})
})

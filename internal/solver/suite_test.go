package solver

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gridsolver/internal/aabb"
	"github.com/san-kum/gridsolver/internal/body"
	"github.com/san-kum/gridsolver/internal/num"
)

func TestSolverSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Solver Suite")
}

var _ = Describe("Solver", func() {
	var cfg Config[f64]

	BeforeEach(func() {
		cfg = Config[f64]{
			Gravity:             vec(0, -10, 0),
			Dampening:           vec(0.8, 1, 0.8),
			GridSize:            [3]int{10, 10, 10},
			CellSize:            [3]int{10, 10, 10},
			GridOrigin:          num.Splat[f64](-50),
			OutsideOfGridBounds: Continue[f64](),
		}
	})

	Describe("overlapping cuboids", func() {
		It("pushes them apart along the shallowest axis", func() {
			cfg.Gravity = num.Vec3[f64]{}
			s, err := New[f64, common](cfg, []common{
				body.NewCuboid(vec(0, 0, 0), num.Splat[f64](1)),
				body.NewCuboid(vec(1.5, 0.25, 0), num.Splat[f64](1)),
			})
			Expect(err).NotTo(HaveOccurred())

			s.Update(0.01)

			a, b := s.Body(0).Bounds(), s.Body(1).Bounds()
			Expect(a.Penetration(b)[0]).To(BeNumerically("~", 0, 1e-12))
			Expect(s.LastStats().Pairs).To(Equal(1))
		})

		It("keeps a pile from sinking through the floor", func() {
			var pile []common
			for i := 0; i < 4; i++ {
				pile = append(pile, body.NewCuboid(vec(0.5, -45+float64(i)*0.9, 0.5), num.Splat[f64](0.5)))
			}
			floor := -45.0
			cfg.OutsideOfGridBounds = PutInBounds[f64]()
			cfg.GridOrigin = vec(-50, floor-0.5, -50)
			s, err := New[f64, common](cfg, pile)
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 200; i++ {
				s.Update(0.01)
			}

			for i := range s.Bodies() {
				Expect(float64(s.Body(i).Particle.Position[1])).To(BeNumerically(">", floor-5))
			}
		})
	})

	Describe("out-of-bounds policies", func() {
		var escaping []common

		BeforeEach(func() {
			escaping = []common{
				body.NewSphere(vec(0, 0, 0), 0.5),
				body.NewSphere(vec(0, -49.99, 0), 0.5),
			}
			escaping[1].Particle.PreviousPosition = vec(0, -48, 0)
		})

		It("lets the body keep falling under continue", func() {
			s, err := New[f64, common](cfg, escaping)
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 5; i++ {
				s.Update(0.01)
			}

			Expect(s.Len()).To(Equal(2))
			Expect(float64(s.Body(1).Particle.Position[1])).To(BeNumerically("<", -50))
			Expect(s.LastStats().OutOfBounds).To(Equal(1))
			Expect(s.LastStats().Bucketed).To(Equal(1))
		})

		It("removes the body under delete", func() {
			cfg.OutsideOfGridBounds = Delete[f64]()
			s, err := New[f64, common](cfg, escaping)
			Expect(err).NotTo(HaveOccurred())

			s.Update(0.01)

			Expect(s.Len()).To(Equal(1))
			Expect(s.Body(0).Particle.Position[1]).To(BeNumerically(">", -1))
		})

		It("holds the body on the floor under clamp", func() {
			cfg.OutsideOfGridBounds = PutInBounds[f64]()
			s, err := New[f64, common](cfg, escaping)
			Expect(err).NotTo(HaveOccurred())

			s.Update(0.01)

			Expect(s.LastStats().Relocated).To(Equal(1))
			Expect(s.Body(1).Particle.Position).To(Equal(vec(0, -50, 0)))
			Expect(s.Body(1).Particle.Velocity(0.01)).To(Equal(num.Vec3[f64]{}))

			// Truncation keeps anything above -51 in the bottom cell.
			box := aabb.MinMax[f64]{Min: vec(-51, -51, -51), Max: num.Splat[f64](50)}
			for i := 0; i < 5; i++ {
				s.Update(0.01)
				Expect(box.IntersectsPoint(s.Body(1).Particle.Position)).To(BeTrue())
			}
		})

		It("sends the body home under teleport", func() {
			cfg.OutsideOfGridBounds = TeleportTo(vec(10, 10, 10))
			s, err := New[f64, common](cfg, escaping)
			Expect(err).NotTo(HaveOccurred())

			s.Update(0.01)

			Expect(s.Body(1).Particle.Position).To(Equal(vec(10, 10, 10)))
			Expect(s.Body(1).Particle.Velocity(0.01)).To(Equal(num.Vec3[f64]{}))
		})
	})

	Describe("tombstones", func() {
		It("never moves a killed body", func() {
			bodies := []common{body.NewCuboid(vec(0, 0, 0), num.Splat[f64](1)), body.None[f64]()}
			s, err := New[f64, common](cfg, bodies)
			Expect(err).NotTo(HaveOccurred())

			s.Body(0).Kill()
			s.Update(0.01)

			Expect(s.LastStats().Live).To(BeZero())
			Expect(s.LastStats().Bodies).To(Equal(2))
		})
	})
})

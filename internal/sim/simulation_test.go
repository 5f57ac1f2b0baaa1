package sim_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/nbodysim/internal/control"
	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/models"
	"github.com/san-kum/nbodysim/internal/physics"
	"github.com/san-kum/nbodysim/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

var _ = Describe("Simulation", func() {
	var (
		ctx context.Context
		s   *sim.Simulation
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		s, err = sim.New(models.NewDisc(models.DefaultConstants(), 42), nil, nil, sim.Config{SimRate: 10000}, nil)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Initialize", func() {
		It("rejects a body count below one", func() {
			_, err := s.Initialize(ctx, 0)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfiguration))
			Expect(s.Bodies()).To(BeNil())
		})

		It("places a lone primary at the origin", func() {
			bs, err := s.Initialize(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(bs.Len()).To(Equal(1))
			Expect(bs.Position(0)).To(Equal(r3.Vec{}))
			Expect(bs.Mass(0)).To(Equal(models.EarthMass))
		})
	})

	Context("with an initialized disc", func() {
		BeforeEach(func() {
			_, err := s.Initialize(ctx, 100)
			Expect(err).NotTo(HaveOccurred())
		})

		It("leaves positions unchanged on a zero-elapsed tick", func() {
			before := s.Bodies().Positions()
			frame, err := s.Tick(ctx, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(frame.DeltaT).To(BeZero())
			for i := range before {
				Expect(frame.Bodies[i].Position).To(Equal(before[i]))
			}
		})

		It("yields a zero step when elapsed does not advance", func() {
			_, err := s.Tick(ctx, 0.25)
			Expect(err).NotTo(HaveOccurred())
			before := s.Bodies().Positions()

			frame, err := s.Tick(ctx, 0.25)
			Expect(err).NotTo(HaveOccurred())
			Expect(frame.DeltaT).To(BeZero())
			Expect(s.Bodies().Positions()).To(Equal(before))
		})

		It("reports one view per body with the primary as target", func() {
			frame, err := s.Tick(ctx, 0.1)
			Expect(err).NotTo(HaveOccurred())
			Expect(frame.Bodies).To(HaveLen(100))
			Expect(frame.Target).To(Equal(frame.Bodies[0].Position))
			Expect(frame.Bodies[0].Radius).To(Equal(models.EarthRadius))
		})

		It("restores the primary mass after scaling up then down", func() {
			Expect(s.ScalePrimaryMass(ctx, control.Up)).To(Succeed())
			Expect(s.Bodies().Mass(0)).To(BeNumerically("~", models.EarthMass*10, models.EarthMass*1e-14))
			Expect(s.ScalePrimaryMass(ctx, control.Down)).To(Succeed())
			Expect(s.Bodies().Mass(0)).To(BeNumerically("~", models.EarthMass, models.EarthMass*1e-15))
		})

		It("keeps the old set when reset fails", func() {
			old := s.Bodies()
			Expect(s.Reset(ctx, -3)).To(MatchError(dynamo.ErrInvalidConfiguration))
			Expect(s.Bodies()).To(BeIdenticalTo(old))
		})
	})

	Describe("two bodies at the typical orbital distance", func() {
		const d = models.MoonOrbit

		BeforeEach(func() {
			gen := &models.Fixed{Bodies: []dynamo.Body{
				{Mass: models.EarthMass, Radius: models.EarthRadius},
				{Position: r3.Vec{X: d}, Mass: models.MoonMass, Radius: models.MoonRadius},
			}}
			var err error
			s, err = sim.New(gen, nil, nil, sim.Config{SimRate: 10000}, nil)
			Expect(err).NotTo(HaveOccurred())
			_, err = s.Initialize(ctx, 2)
			Expect(err).NotTo(HaveOccurred())
		})

		It("pulls the secondary toward the primary by G·M/D²", func() {
			frame, err := s.Tick(ctx, 1)
			Expect(err).NotTo(HaveOccurred())

			dt := frame.DeltaT
			accel := physics.G * models.EarthMass / (d * d)
			moved := d - frame.Bodies[1].Position.X
			Expect(moved).To(BeNumerically("~", 0.5*accel*dt*dt, 1e-6))
			Expect(s.Bodies().Velocity(1).X).To(BeNumerically("~", -accel*dt, 1e-12))
		})

		It("pulls harder after the primary mass grows", func() {
			Expect(s.ScalePrimaryMass(ctx, control.Up)).To(Succeed())
			frame, err := s.Tick(ctx, 1)
			Expect(err).NotTo(HaveOccurred())

			accel := physics.G * models.EarthMass * 10 / (d * d)
			moved := d - frame.Bodies[1].Position.X
			Expect(math.Abs(moved - 0.5*accel*frame.DeltaT*frame.DeltaT)).To(BeNumerically("<", 1e-5))
		})

		It("conserves linear momentum under the snapshot discipline", func() {
			result, err := s.Run(ctx, 60, 1.0/60)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Frames).To(Equal(60))

			p := s.Field().Momentum(s.Bodies())
			Expect(r3.Norm(p)).To(BeNumerically("<", 1e-6*models.MoonMass))
		})
	})
})

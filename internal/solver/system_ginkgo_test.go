package solver_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/odelab/internal/solver"
)

var _ = Describe("coupled system solving", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("the harmonic oscillator y1'=y2, y2'=-y1", func() {
		It("returns to the initial condition after one full period", func() {
			sol := solver.SolveSystem(ctx, []string{"y2", "-y1"}, solver.SystemOptions{
				T0: 0, Y0: []float64{1, 0}, TEnd: 2 * math.Pi, StepSize: 0.001, Method: "rk4",
			})

			Expect(sol.Success).To(BeTrue(), sol.Error)
			last := sol.Points[len(sol.Points)-1]
			Expect(last.T).To(BeNumerically("~", 2*math.Pi, 1e-6))
			Expect(last.Y[0]).To(BeNumerically("~", 1, 1e-6))
			Expect(last.Y[1]).To(BeNumerically("~", 0, 1e-6))
		})

		It("keeps every point's state vector at the initial length", func() {
			sol := solver.SolveSystem(ctx, []string{"y2", "-y1"}, solver.SystemOptions{
				T0: 0, Y0: []float64{1, 0}, TEnd: 1, StepSize: 0.01, Method: "heun",
			})

			Expect(sol.Success).To(BeTrue(), sol.Error)
			for _, p := range sol.Points {
				Expect(p.Y).To(HaveLen(2))
				Expect(p.Dydt).To(HaveLen(2))
			}
		})

		It("reports one value range per component", func() {
			sol := solver.SolveSystem(ctx, []string{"y2", "-y1"}, solver.SystemOptions{
				T0: 0, Y0: []float64{1, 0}, TEnd: 2 * math.Pi, StepSize: 0.01, Method: "rk4",
			})

			Expect(sol.Success).To(BeTrue(), sol.Error)
			Expect(sol.Meta.YRanges).To(HaveLen(2))
			Expect(sol.Meta.YRanges[0][0]).To(BeNumerically("~", -1, 1e-3))
			Expect(sol.Meta.YRanges[0][1]).To(BeNumerically("~", 1, 1e-3))
		})
	})

	Describe("input validation", func() {
		It("rejects an empty initial condition", func() {
			sol := solver.SolveSystem(ctx, []string{"y1"}, solver.SystemOptions{
				T0: 0, Y0: nil, TEnd: 1, StepSize: 0.01,
			})
			Expect(sol.Success).To(BeFalse())
			Expect(sol.Points).To(BeEmpty())
			Expect(sol.Error).NotTo(BeEmpty())
		})

		It("rejects an empty equation list before validating options", func() {
			sol := solver.SolveSystem(ctx, nil, solver.SystemOptions{
				T0: 0, Y0: []float64{1}, TEnd: 1, StepSize: 0.01,
			})
			Expect(sol.Success).To(BeFalse())
			Expect(sol.Error).To(ContainSubstring("no equations"))
		})

		It("rejects a non-finite initial component", func() {
			sol := solver.SolveSystem(ctx, []string{"y2", "-y1"}, solver.SystemOptions{
				T0: 0, Y0: []float64{1, math.Inf(1)}, TEnd: 1, StepSize: 0.01,
			})
			Expect(sol.Success).To(BeFalse())
		})
	})

	Describe("runtime failures", func() {
		It("fails when an equation references a component beyond the state", func() {
			sol := solver.SolveSystem(ctx, []string{"y2", "y3"}, solver.SystemOptions{
				T0: 0, Y0: []float64{1, 0}, TEnd: 1, StepSize: 0.01,
			})
			Expect(sol.Success).To(BeFalse())
			Expect(sol.Points).To(BeEmpty())
		})

		It("fails on divergence without returning partial points", func() {
			sol := solver.SolveSystem(ctx, []string{"y1^2"}, solver.SystemOptions{
				T0: 0, Y0: []float64{1}, TEnd: 2, StepSize: 0.001, Method: "rk4",
			})
			Expect(sol.Success).To(BeFalse())
			Expect(sol.Points).To(BeEmpty())
		})

		It("fails when a user function returns the wrong vector length", func() {
			f := func(t float64, y []float64) ([]float64, error) {
				return []float64{y[0]}, nil
			}
			sol := solver.SolveSystemFunc(ctx, f, solver.SystemOptions{
				T0: 0, Y0: []float64{1, 0}, TEnd: 1, StepSize: 0.01,
			})
			Expect(sol.Success).To(BeFalse())
			Expect(sol.Error).To(ContainSubstring("components"))
		})
	})

	Describe("a callback that reuses its output buffer", func() {
		It("keeps every recorded derivative at its own step's value", func() {
			buf := make([]float64, 1)
			f := func(t float64, y []float64) ([]float64, error) {
				buf[0] = t
				return buf, nil
			}
			sol := solver.SolveSystemFunc(ctx, f, solver.SystemOptions{
				T0: 0, Y0: []float64{0}, TEnd: 1, StepSize: 0.1, Method: "euler",
			})

			Expect(sol.Success).To(BeTrue(), sol.Error)
			Expect(sol.Points[0].Dydt[0]).To(Equal(0.0))
			for _, p := range sol.Points {
				Expect(p.Dydt[0]).To(BeNumerically("~", p.T, 1e-12))
			}
			Expect(sol.Points[len(sol.Points)-1].Dydt[0]).To(BeNumerically("~", 1, 1e-9))
		})

		It("does not disturb the stages of a multi-stage method", func() {
			buf := make([]float64, 2)
			f := func(t float64, y []float64) ([]float64, error) {
				buf[0] = y[1]
				buf[1] = -y[0]
				return buf, nil
			}
			sol := solver.SolveSystemFunc(ctx, f, solver.SystemOptions{
				T0: 0, Y0: []float64{1, 0}, TEnd: 1, StepSize: 0.01, Method: "rk4",
			})

			Expect(sol.Success).To(BeTrue(), sol.Error)
			last := sol.Points[len(sol.Points)-1]
			Expect(last.Y[0]).To(BeNumerically("~", math.Cos(1), 1e-6))
			Expect(last.Y[1]).To(BeNumerically("~", -math.Sin(1), 1e-6))
		})
	})

	Describe("backward integration", func() {
		It("traverses from t0 down to tEnd", func() {
			sol := solver.SolveSystem(ctx, []string{"y2", "-y1"}, solver.SystemOptions{
				T0: 1, Y0: []float64{1, 0}, TEnd: 0, StepSize: 0.01, Method: "rk4",
			})

			Expect(sol.Success).To(BeTrue(), sol.Error)
			Expect(sol.Points[0].T).To(Equal(1.0))
			Expect(sol.Points[len(sol.Points)-1].T).To(BeNumerically("~", 0, 1e-6))
		})
	})
})

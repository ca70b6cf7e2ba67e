package methods

import "testing"

func benchDeriv(t, y float64) (float64, error) { return -y, nil }

func benchCoupledDeriv(t float64, y []float64) ([]float64, error) {
	return []float64{y[1], -y[0]}, nil
}

func BenchmarkEuler(b *testing.B) {
	m, _ := Get("euler")
	y := 1.0

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, y, _ = m.Step(benchDeriv, 0, y, 0.01)
	}
}

func BenchmarkHeun(b *testing.B) {
	m, _ := Get("heun")
	y := 1.0

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, y, _ = m.Step(benchDeriv, 0, y, 0.01)
	}
}

func BenchmarkRK4(b *testing.B) {
	m, _ := Get("rk4")
	y := 1.0

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, y, _ = m.Step(benchDeriv, 0, y, 0.01)
	}
}

func BenchmarkCoupledRK4(b *testing.B) {
	m, _ := GetCoupled("rk4")
	y := []float64{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, y, _ = m.Step(benchCoupledDeriv, 0, y, 0.01)
	}
}

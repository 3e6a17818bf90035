package strategy_test

import (
	"testing"

	"github.com/amirkhaki/conductor/internal/strategy"
)

func TestDelayRandomStaysWithinBound(t *testing.T) {
	d := strategy.NewDelayRandom(strategy.Config{RandomSeed: 1})
	d.InitializeNextIteration(0)
	d.RegisterTask(1)

	for i := 0; i < 200; i++ {
		v, ok := d.GetNextDelay(1, 50)
		if !ok {
			t.Fatal("GetNextDelay should succeed for a registered task")
		}
		if v < 0 || v >= 50 {
			t.Fatalf("delay %d out of [0,50)", v)
		}
	}
}

func TestDelayLowPercentageMostlyZero(t *testing.T) {
	d := strategy.NewDelayLowPercentage(strategy.Config{RandomSeed: 3})
	d.InitializeNextIteration(0)

	zero := 0
	const n = 5000
	for i := 0; i < n; i++ {
		v, _ := d.GetNextDelay(1, 100)
		if v == 0 {
			zero++
		}
	}
	// lowDelayProbability is 0.01, so the overwhelming majority of
	// draws should be zero.
	if zero < n*9/10 {
		t.Fatalf("zero delays = %d/%d, expected the large majority to be zero", zero, n)
	}
}

func TestDelayCoinTossDoublesOrHolds(t *testing.T) {
	d := strategy.NewDelayCoinToss(strategy.Config{RandomSeed: 4})
	d.InitializeNextIteration(0)
	d.RegisterTask(1)

	prev := 1
	for i := 0; i < 100; i++ {
		v, ok := d.GetNextDelay(1, 1000)
		if !ok {
			t.Fatal("GetNextDelay should succeed for a registered task")
		}
		doubled := prev * 2
		if doubled > 500 {
			doubled = 500
		}
		if v != prev && v != doubled {
			t.Fatalf("step %d: delay %d, want %d (held) or %d (doubled)", i, v, prev, doubled)
		}
		prev = v
	}
}

func TestDelayPortfolioRotatesByIteration(t *testing.T) {
	a := strategy.NewDelayRandom(strategy.Config{RandomSeed: 1})
	b := strategy.NewDelayLowPercentage(strategy.Config{RandomSeed: 2})
	p := strategy.NewDelayPortfolio(a, b)

	p.InitializeNextIteration(0)
	if got, want := p.GetDescription(), "portfolio("+a.GetDescription()+")"; got != want {
		t.Fatalf("description at iteration 0 = %q, want %q", got, want)
	}

	p.InitializeNextIteration(1)
	if got, want := p.GetDescription(), "portfolio("+b.GetDescription()+")"; got != want {
		t.Fatalf("description at iteration 1 = %q, want %q", got, want)
	}
}

func TestLivenessWrapperDelegatesWhenNoChecker(t *testing.T) {
	inner := strategy.NewDelayRandom(strategy.Config{RandomSeed: 1})
	w := strategy.NewLivenessWrapper(inner, nil)
	w.InitializeNextIteration(0)
	w.RegisterTask(1)

	if _, ok := w.GetNextDelay(1, 10); !ok {
		t.Fatal("LivenessWrapper should delegate GetNextDelay to its inner strategy")
	}
}

func TestComboSwitchesAtPrefixLength(t *testing.T) {
	prefix := strategy.NewRandom(strategy.Config{RandomSeed: 1, MaxFairSchedulingSteps: 100})
	suffix := strategy.NewRandom(strategy.Config{RandomSeed: 2, MaxFairSchedulingSteps: 100})
	combo := strategy.NewCombo(prefix, suffix, 3)
	combo.InitializeNextIteration(0)

	ops := enabledSet(2)
	for i := 0; i < 3; i++ {
		combo.GetNextOperation(ops, nil, false)
	}
	if combo.GetStepCount() != 3 {
		t.Fatalf("GetStepCount() = %d, want 3", combo.GetStepCount())
	}
	if prefix.GetStepCount() != 3 || suffix.GetStepCount() != 0 {
		t.Fatalf("after 3 steps: prefix steps = %d, suffix steps = %d, want 3 and 0", prefix.GetStepCount(), suffix.GetStepCount())
	}

	combo.GetNextOperation(ops, nil, false)
	if suffix.GetStepCount() != 1 {
		t.Fatalf("step 4: suffix steps = %d, want 1", suffix.GetStepCount())
	}
}

func TestProbabilisticIsFair(t *testing.T) {
	p := strategy.NewProbabilistic(strategy.Config{RandomSeed: 1, MaxFairSchedulingSteps: 50}, 20)
	if !p.IsFair() {
		t.Fatal("Probabilistic.IsFair() should be true")
	}
}

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCategories(t *testing.T) {
	perf := CategoryAssigned.WithLabelValues("performance", "2")
	pot := CategoryAssigned.WithLabelValues("potential", "0")
	beforePerf := testutil.ToFloat64(perf)
	beforePot := testutil.ToFloat64(pot)

	ObserveCategories(2, 0)

	if got := testutil.ToFloat64(perf) - beforePerf; got != 1 {
		t.Errorf("performance/2 delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(pot) - beforePot; got != 1 {
		t.Errorf("potential/0 delta = %v, want 1", got)
	}
}

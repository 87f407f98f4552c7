package analytics_test

import (
	"fmt"

	"maintcli/internal/analytics"
	"maintcli/internal/shared/testutil"
	"maintcli/pkg/contracts/domain"
)

func ExamplePareto() {
	recs := []domain.InterventionRecord{
		testutil.Intervention("1", "PRESS-01", "", 50, "", ""),
		testutil.Intervention("2", "CNC-02", "", 30, "", ""),
		testutil.Intervention("3", "LATHE-03", "", 10, "", ""),
		testutil.Intervention("4", "PUMP-04", "", 10, "", ""),
	}

	for _, e := range analytics.Pareto(recs, domain.ParetoByDowntime, analytics.DefaultParetoThreshold) {
		fmt.Printf("%d %s %.0f%% critical=%t\n", e.Rank, e.MachineID, e.CumulativePct, e.IsCritical)
	}
	// Output:
	// 1 PRESS-01 50% critical=true
	// 2 CNC-02 80% critical=true
	// 3 LATHE-03 90% critical=false
	// 4 PUMP-04 100% critical=false
}

func ExampleCalendarMTBF() {
	fmt.Println(analytics.Round2(analytics.CalendarMTBF(5)))
	fmt.Println(analytics.Round2(analytics.Availability(100, analytics.HoursPerYear)))
	// Output:
	// 73
	// 98.86
}

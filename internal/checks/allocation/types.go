package allocation

// Thresholds holds the four independent limits for the allocation check.
// The byte values are floors on unallocated space; the percent values are
// ceilings on allocated space. Warning and critical variants are evaluated
// independently, critical first.
type Thresholds struct {
	WarningBytes    uint64
	CriticalBytes   uint64
	WarningPercent  int
	CriticalPercent int
}

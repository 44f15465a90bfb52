package calculator

import (
	"fmt"
	"time"

	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/models"
)

// Count is one row of a grouped count.
type Count struct {
	Key   string
	Count int
}

// MonthKey identifies a calendar month.
type MonthKey struct {
	Month time.Month
	Year  int
}

// Label renders the key as "M/YYYY" (e.g. "10/2025").
func (k MonthKey) Label() string {
	return fmt.Sprintf("%d/%d", int(k.Month), k.Year)
}

// MonthCount is one row of the by-month grouping.
type MonthCount struct {
	MonthKey
	Count int
}

// Report holds the counters and groupings derived from a full snapshot of
// tools and movements.
type Report struct {
	TotalMovements int
	StockTotal     int
	InUse          int
	Broken         int

	// Available is StockTotal - InUse - Broken. It is not clamped: a negative
	// value means the stored data is inconsistent.
	Available int

	ByTool      []Count
	ByRequester []Count
	ByMonth     []MonthCount
}

// Aggregate computes a Report. Grouped rows keep the order in which each key
// first appears in movements.
func Aggregate(tools []*models.Tool, movements []*models.Movement) Report {
	r := Report{TotalMovements: len(movements)}

	for _, tool := range tools {
		r.StockTotal += tool.Available()
	}

	byTool := newCounter()
	byRequester := newCounter()
	byMonth := make(map[MonthKey]int)

	for _, m := range movements {
		if m.InUse() {
			r.InUse++
		}
		if m.Kind == models.MovementBroken {
			r.Broken++
		}

		if m.Tool != "" {
			byTool.add(m.Tool)
		}
		if m.Requester != "" {
			byRequester.add(m.Requester)
		}

		if m.CheckedOutAt.IsZero() {
			continue
		}
		key := MonthKey{Month: m.CheckedOutAt.Month(), Year: m.CheckedOutAt.Year()}
		if _, seen := byMonth[key]; !seen {
			r.ByMonth = append(r.ByMonth, MonthCount{MonthKey: key})
		}
		byMonth[key]++
	}

	for i := range r.ByMonth {
		r.ByMonth[i].Count = byMonth[r.ByMonth[i].MonthKey]
	}

	r.Available = r.StockTotal - r.InUse - r.Broken
	r.ByTool = byTool.rows()
	r.ByRequester = byRequester.rows()
	return r
}

// counter counts keys while remembering first-occurrence order.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *counter) rows() []Count {
	rows := make([]Count, 0, len(c.order))
	for _, key := range c.order {
		rows = append(rows, Count{Key: key, Count: c.counts[key]})
	}
	return rows
}

// Percentage formats 100*part/whole with one decimal place, or "0%" when
// whole is zero.
func Percentage(part, whole int) string {
	if whole == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(part)/float64(whole))
}

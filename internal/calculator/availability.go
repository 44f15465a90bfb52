package calculator

import "github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/models"

// NameAvailability is the number of units in stock across every tool row
// sharing a name.
type NameAvailability struct {
	Name      string
	Available int
}

// GroupAvailability sums asset tags per tool name, in first-occurrence order.
// Names with nothing in stock are left out.
func GroupAvailability(tools []*models.Tool) []NameAvailability {
	c := newCounter()
	for _, tool := range tools {
		for range tool.AssetTags {
			c.add(tool.Name)
		}
	}

	rows := c.rows()
	out := make([]NameAvailability, 0, len(rows))
	for _, row := range rows {
		out = append(out, NameAvailability{Name: row.Key, Available: row.Count})
	}
	return out
}

// UnitsFor lists the asset tags in stock for a tool name, across all rows.
func UnitsFor(tools []*models.Tool, name string) []string {
	var tags []string
	for _, tool := range tools {
		if tool.Name == name {
			tags = append(tags, tool.AssetTags...)
		}
	}
	return tags
}

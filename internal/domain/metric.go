package domain

// AggregationKind declares how a metric rolls up into a period bucket:
// monetary metrics sum, percentage-type metrics (occupancy) take a
// day-count-weighted average. The kind is declared once per metric and
// consulted by the aggregator, never re-derived from the metric name at
// call sites.
type AggregationKind string

const (
	AggregateSum     AggregationKind = "sum"
	AggregateAverage AggregationKind = "average"
)

// Metric is a reportable daily figure.
type Metric struct {
	Name        string
	Aggregation AggregationKind
}

var knownMetrics = map[string]Metric{
	"revenue":   {Name: "revenue", Aggregation: AggregateSum},
	"covers":    {Name: "covers", Aggregation: AggregateSum},
	"rooms":     {Name: "rooms", Aggregation: AggregateSum},
	"occupancy": {Name: "occupancy", Aggregation: AggregateAverage},
	"adr":       {Name: "adr", Aggregation: AggregateAverage},
}

// MetricByName looks up a metric by its wire name.
func MetricByName(name string) (Metric, error) {
	m, ok := knownMetrics[name]
	if !ok {
		return Metric{}, ErrUnknownMetric
	}
	return m, nil
}

// Package chart shapes comparison data into library-neutral chart specs.
package chart

type Kind string

const (
	KindScatter Kind = "scatter"
	KindLine    Kind = "line"
	KindBar     Kind = "bar"
	KindPie     Kind = "pie"
)

// Container ids, one per chart slot on the dashboard.
const (
	ScatterID  = "sentimentScatter"
	TimelineID = "timelineChart"
	SourcesID  = "sourcesChart"
	PieID1     = "sentimentPieChart1"
	PieID2     = "sentimentPieChart2"
	OutletID1  = "sentimentByOutletChart1"
	OutletID2  = "sentimentByOutletChart2"
)

const (
	MaxSourcesPerQuery = 10
	MaxOutlets         = 15
)

// Series colours for the first and second query.
const (
	primaryLine   = "#005e30"
	primaryFill   = "rgba(0, 94, 48, 0.7)"
	secondaryLine = "#00a651"
	secondaryFill = "rgba(0, 166, 81, 0.7)"
)

type Point struct {
	X string  `json:"x"`
	Y float64 `json:"y"`
}

type Dataset struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values,omitempty"`
	Points []Point   `json:"points,omitempty"`
	// Colors holds one colour per value or point; Color is the series colour.
	Colors []string `json:"colors,omitempty"`
	Color  string   `json:"color,omitempty"`
	Hover  []string `json:"hover,omitempty"`
	Links  []string `json:"links,omitempty"`
}

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type Spec struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	Title       string    `json:"title"`
	Labels      []string  `json:"labels,omitempty"`
	Datasets    []Dataset `json:"datasets"`
	Horizontal  bool      `json:"horizontal,omitempty"`
	ValueRange  *Range    `json:"value_range,omitempty"`
	Percentages []int     `json:"percentages,omitempty"`
	ValueTitle  string    `json:"value_title,omitempty"`
}

// Points returns the number of values or points across all datasets.
func (s Spec) Points() int {
	n := 0
	for _, d := range s.Datasets {
		n += len(d.Values) + len(d.Points)
	}
	return n
}

package types

// Request carries the four values a presentation layer collects before a
// report can be generated.
type Request struct {
	JiraFile    string
	MapFile     string
	Destination string
	Name        string
}

// Complete reports whether every field was filled in.
func (r Request) Complete() bool {
	return r.JiraFile != "" && r.MapFile != "" && r.Destination != "" && r.Name != ""
}

type Result struct {
	JiraFile    string
	MapFile     string
	OutputFile  string
	Period      string
	SubPeriod   string
	RowsWritten int
}

package catalog

import "time"

/*
The catalog is a record of what a snapshot wrote.
It lets a reader verify and inventory an export without
walking every artifact.
*/

// Catalog represents the sources that have been processed
type Catalog struct {
	ID                  string         `json:"id"`
	StartTime           time.Time      `json:"start_time"`
	EndTime             time.Time      `json:"end_time"`
	Source              string         `json:"source"`
	NumSourceRecords    int            `json:"num_source_records"`
	NumRecordsProcessed int            `json:"num_records_processed"`
	NumRecordsFailed    int            `json:"num_records_failed"`
	Classes             map[string]int `json:"classes"`
	Entries             []Entry        `json:"entries"`
	Success             bool           `json:"success"`
}

// Entry lists the artifacts written for one source.
type Entry struct {
	Index           int      `json:"index"`
	SNID            string   `json:"snid"`
	Class           string   `json:"class"`
	AstroClass      string   `json:"astro_class"`
	NumObservations int      `json:"num_observations"`
	Artifacts       []string `json:"artifacts,omitempty"`
	Error           string   `json:"error,omitempty"`
}

func New(id, source string) *Catalog {
	return &Catalog{
		ID:        id,
		Source:    source,
		StartTime: time.Now().UTC(),
		Classes:   make(map[string]int),
	}
}

// Add records the outcome of one source.
func (c *Catalog) Add(e Entry) {
	c.NumRecordsProcessed++
	if e.Error != "" {
		c.NumRecordsFailed++
	} else {
		c.Classes[e.AstroClass]++
	}
	c.Entries = append(c.Entries, e)
}

// Complete stamps the end time and marks the snapshot successful when
// every source was exported.
func (c *Catalog) Complete() {
	c.EndTime = time.Now().UTC()
	c.Success = c.NumRecordsFailed == 0 && c.NumRecordsProcessed == c.NumSourceRecords
}

package model

// Column names of the crash reports export the checks expect by default.
const (
	DefaultReportIDColumn  = "Report Number"
	DefaultTimestampColumn = "Crash Date/Time"
	DefaultLatitudeColumn  = "Latitude"
	DefaultLongitudeColumn = "Longitude"
	DefaultCategoryColumn  = "Agency Name"
)

// Contract names the semantic columns the audit engine, the cleaning steps
// and the insights look for. Columns missing from a dataset are skipped by
// the operation that needs them.
type Contract struct {
	ReportIDColumn  string   `json:"reportIdColumn"`
	TimestampColumn string   `json:"timestampColumn"`
	LatitudeColumn  string   `json:"latitudeColumn"`
	LongitudeColumn string   `json:"longitudeColumn"`
	CategoryColumn  string   `json:"categoryColumn"`
	KeyFields       []string `json:"keyFields"`
}

// DefaultContract returns the contract for the crash reports export.
func DefaultContract() Contract {
	return Contract{
		ReportIDColumn:  DefaultReportIDColumn,
		TimestampColumn: DefaultTimestampColumn,
		LatitudeColumn:  DefaultLatitudeColumn,
		LongitudeColumn: DefaultLongitudeColumn,
		CategoryColumn:  DefaultCategoryColumn,
	}
}

// WithDefaults fills empty fields from DefaultContract. Empty KeyFields
// become the report id, timestamp and coordinate columns.
func (c Contract) WithDefaults() Contract {
	def := DefaultContract()
	if c.ReportIDColumn == "" {
		c.ReportIDColumn = def.ReportIDColumn
	}
	if c.TimestampColumn == "" {
		c.TimestampColumn = def.TimestampColumn
	}
	if c.LatitudeColumn == "" {
		c.LatitudeColumn = def.LatitudeColumn
	}
	if c.LongitudeColumn == "" {
		c.LongitudeColumn = def.LongitudeColumn
	}
	if c.CategoryColumn == "" {
		c.CategoryColumn = def.CategoryColumn
	}
	if len(c.KeyFields) == 0 {
		c.KeyFields = []string{c.ReportIDColumn, c.TimestampColumn, c.LatitudeColumn, c.LongitudeColumn}
	}
	return c
}

// KeyFieldSet returns the key fields that exist in ds.
func (c Contract) KeyFieldSet(ds *Dataset) map[string]bool {
	set := make(map[string]bool)
	for _, f := range c.WithDefaults().KeyFields {
		if ds.HasColumn(f) {
			set[f] = true
		}
	}
	return set
}

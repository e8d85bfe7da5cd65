package transport

type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type ImportPreviewResponse struct {
	Headers   []string            `json:"headers"`
	Mapping   map[string]string   `json:"mapping"`
	Preview   []map[string]string `json:"preview"`
	TotalRows int                 `json:"totalRows"`
	Errors    []string            `json:"errors"`
	Valid     bool                `json:"valid"`
}

type ImportResultResponse struct {
	Imported int            `json:"imported"`
	Leads    []LeadResponse `json:"leads"`
}

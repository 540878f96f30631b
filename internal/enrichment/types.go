package enrichment

// EnrichRequest is the payload sent to the enrichment service: a candidate
// gene list plus the organism namespace to resolve it against.
type EnrichRequest struct {
	Organism string   `json:"organism"`
	Genes    []string `json:"genes"`
}

// Term is one over-represented functional category returned by the service.
type Term struct {
	Source           string  `json:"source"` // e.g. GO:BP, KEGG
	TermID           string  `json:"term_id"`
	TermName         string  `json:"term_name"`
	PValue           float64 `json:"p_value"`
	TermSize         int     `json:"term_size"`
	IntersectionSize int     `json:"intersection_size"`
}

// EnrichResponse is the service's response envelope.
type EnrichResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Results []Term `json:"results"`
}

package models

// DocumentCategory represents the category of an uploaded document
type DocumentCategory string

const (
	CategoryContract       DocumentCategory = "contract"
	CategoryCorrespondence DocumentCategory = "correspondence"
	CategoryEvidence       DocumentCategory = "evidence"
	CategoryCourtFiling    DocumentCategory = "court_filing"
	CategoryResearch       DocumentCategory = "research"
	CategoryForm           DocumentCategory = "form"
	CategoryOther          DocumentCategory = "other"
)

// DocumentCategories lists every valid document category value
var DocumentCategories = []string{
	string(CategoryContract),
	string(CategoryCorrespondence),
	string(CategoryEvidence),
	string(CategoryCourtFiling),
	string(CategoryResearch),
	string(CategoryForm),
	string(CategoryOther),
}

// Document represents a file attached to a legal case. FileType is derived
// from the filename extension; ExtractedContent may be empty when content
// extraction failed or was skipped.
type Document struct {
	ID               string           `json:"id,omitempty"`
	CaseID           string           `json:"case_id"`
	Title            string           `json:"title"`
	FileURL          string           `json:"file_url,omitempty"`
	FileType         string           `json:"file_type,omitempty"`
	ExtractedContent string           `json:"extracted_content,omitempty"`
	DocumentCategory DocumentCategory `json:"document_category,omitempty"`
	CreatedDate      string           `json:"created_date,omitempty"`
}

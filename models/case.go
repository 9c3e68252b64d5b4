package models

// CaseStatus represents the lifecycle status of a legal case
type CaseStatus string

const (
	CaseStatusActive    CaseStatus = "active"
	CaseStatusResearch  CaseStatus = "research"
	CaseStatusDrafting  CaseStatus = "drafting"
	CaseStatusFiling    CaseStatus = "filing"
	CaseStatusCompleted CaseStatus = "completed"
	CaseStatusClosed    CaseStatus = "closed"
)

// CasePriority represents the priority level of a legal case
type CasePriority string

const (
	PriorityLow    CasePriority = "low"
	PriorityMedium CasePriority = "medium"
	PriorityHigh   CasePriority = "high"
	PriorityUrgent CasePriority = "urgent"
)

// CaseType represents the type of legal case
type CaseType string

const (
	CaseTypePersonalInjury       CaseType = "personal_injury"
	CaseTypeContractDispute      CaseType = "contract_dispute"
	CaseTypeFamilyLaw            CaseType = "family_law"
	CaseTypeCriminalDefense      CaseType = "criminal_defense"
	CaseTypeEmployment           CaseType = "employment"
	CaseTypeRealEstate           CaseType = "real_estate"
	CaseTypeCorporate            CaseType = "corporate"
	CaseTypeIntellectualProperty CaseType = "intellectual_property"
	CaseTypeImmigration          CaseType = "immigration"
	CaseTypeOther                CaseType = "other"
)

// CaseTypes lists every valid case type value
var CaseTypes = []string{
	string(CaseTypePersonalInjury),
	string(CaseTypeContractDispute),
	string(CaseTypeFamilyLaw),
	string(CaseTypeCriminalDefense),
	string(CaseTypeEmployment),
	string(CaseTypeRealEstate),
	string(CaseTypeCorporate),
	string(CaseTypeIntellectualProperty),
	string(CaseTypeImmigration),
	string(CaseTypeOther),
}

// CaseStatuses lists every valid case status value
var CaseStatuses = []string{
	string(CaseStatusActive),
	string(CaseStatusResearch),
	string(CaseStatusDrafting),
	string(CaseStatusFiling),
	string(CaseStatusCompleted),
	string(CaseStatusClosed),
}

// CasePriorities lists every valid case priority value
var CasePriorities = []string{
	string(PriorityLow),
	string(PriorityMedium),
	string(PriorityHigh),
	string(PriorityUrgent),
}

// Case represents a legal case entity
type Case struct {
	ID           string       `json:"id,omitempty"`
	Title        string       `json:"title"`
	Description  string       `json:"description,omitempty"`
	CaseType     CaseType     `json:"case_type"`
	Jurisdiction string       `json:"jurisdiction,omitempty"`
	Status       CaseStatus   `json:"status,omitempty"`
	Priority     CasePriority `json:"priority,omitempty"`
	Deadline     string       `json:"deadline,omitempty"` // date string (YYYY-MM-DD)
	CreatedDate  string       `json:"created_date,omitempty"`
}

// CaseSchema returns the schema descriptor for the Case entity. The intake
// workflow uses it (minus status) to constrain what the AI structuring step
// is allowed to populate.
func CaseSchema() *Schema {
	return &Schema{
		Name: "LegalCase",
		Type: TypeObject,
		Properties: map[string]*Schema{
			"title":       {Type: TypeString, Description: "Name or title of the legal case"},
			"description": {Type: TypeString, Description: "Detailed description of the case"},
			"case_type": {
				Type:        TypeString,
				Enum:        CaseTypes,
				Description: "Type of legal case",
			},
			"jurisdiction": {Type: TypeString, Description: "State or jurisdiction for the case"},
			"status": {
				Type:        TypeString,
				Enum:        CaseStatuses,
				Default:     string(CaseStatusActive),
				Description: "Current status of the case",
			},
			"priority": {
				Type:        TypeString,
				Enum:        CasePriorities,
				Default:     string(PriorityMedium),
				Description: "Priority level of the case",
			},
			"deadline": {Type: TypeString, Format: "date", Description: "Important deadline for the case"},
		},
		Required: []string{"title", "case_type"},
	}
}

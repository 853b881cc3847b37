package intake

// Domain keys understood by the built-in registry.
const (
	DomainTheft            = "theft"
	DomainCyberFraud       = "cyber_fraud"
	DomainPropertyDispute  = "property_dispute"
	DomainConsumer         = "consumer_complaint"
	DomainGeneralComplaint = "general_complaint"
)

// Field names shared by the oracles, the planner and document generation.
const (
	FieldName                = "name"
	FieldDate                = "date"
	FieldLocation            = "location"
	FieldAccused             = "accused"
	FieldCounterparty        = "counterparty"
	FieldSeller              = "seller"
	FieldProduct             = "product"
	FieldPropertyDetails     = "property_details"
	FieldAmount              = "amount"
	FieldTransactionDetails  = "transaction_details"
	FieldEvidence            = "evidence"
	FieldWitness             = "witness"
	FieldCounterpartyAddress = "counterparty_address"
	FieldPropertyDocuments   = "property_documents"
	FieldPoliceApproached    = "police_approached"
	FieldRelationship        = "relationship"
	FieldDescription         = "description"
)

// DefaultPriority orders fields identity, date, location, counterparty,
// financial detail, then supporting evidence.
var DefaultPriority = []string{
	FieldName,
	FieldDate,
	FieldLocation,
	FieldAccused,
	FieldCounterparty,
	FieldSeller,
	FieldProduct,
	FieldPropertyDetails,
	FieldAmount,
	FieldTransactionDetails,
	FieldEvidence,
	FieldWitness,
	FieldCounterpartyAddress,
	FieldPropertyDocuments,
	FieldPoliceApproached,
	FieldDescription,
}

const (
	ElaborationPrompt = "Could you provide more specific details about what happened?"
	CorrectionPrompt  = "Please tell me what needs to be corrected."
)

var defaultPrompts = map[string]string{
	FieldName:                "To finalize the document draft, could you please state your full name?",
	FieldDate:                "When did the incident occur?",
	FieldLocation:            "Could you specify the location (City/Area) relevant to this issue?",
	FieldAccused:             "Do you know who did this? Please share their name or a description.",
	FieldCounterparty:        "Who is the other party in this dispute (for example your landlord, tenant or neighbour)?",
	FieldSeller:              "Which shop or company sold you the product or service?",
	FieldProduct:             "Which product or service is defective?",
	FieldPropertyDetails:     "Please describe the property (address, survey number or type of property).",
	FieldAmount:              "What was the total financial loss or amount involved?",
	FieldTransactionDetails:  "Please share the transaction details (date, amount, UPI or bank reference).",
	FieldEvidence:            "Do you have any proof of the incident, such as a bill, receipt, photo, CCTV footage or written agreement?",
	FieldWitness:             "Were there any witnesses present during the incident?",
	FieldCounterpartyAddress: "What is the postal address of the person you want to send the notice to?",
	FieldPropertyDocuments:   "Which property documents do you hold (sale deed, patta, encumbrance certificate)?",
	FieldPoliceApproached:    "Have you already approached the police? What was their response?",
	FieldDescription:         "Could you describe what happened in a few sentences?",
}

func defaultThresholds() Thresholds {
	return Thresholds{NeedsMoreDetail: 50, Ready: 80}
}

// DefaultProfiles returns the built-in domain profiles.
func DefaultProfiles() []Profile {
	return []Profile{
		{
			Key:            DomainTheft,
			IssueType:      "police_complaint",
			SubCategory:    "theft",
			Guidance:       GuidancePolice,
			RequiredFields: []string{FieldName, FieldDate, FieldLocation, FieldAccused, FieldDescription},
			OptionalFields: []string{FieldAmount, FieldEvidence, FieldWitness},
			Priority:       DefaultPriority,
			Prompts: map[string]string{
				FieldLocation: "Where did this happen?",
			},
			RequiresAction: true,
			Actions: []ActionChoice{
				{
					Title:          "File FIR at Police Station",
					Pros:           []string{"Starts a criminal investigation", "No fee is charged", "Police can trace and recover stolen property"},
					Cons:           []string{"Registration may be delayed", "You may need to follow up in person"},
					RequiredFields: []string{FieldLocation, FieldDate},
				},
				{
					Title:          "Send Legal Notice",
					Pros:           []string{"Creates a written record", "May lead to settlement without court"},
					Cons:           []string{"Needs a known opposite party", "No investigation powers"},
					RequiredFields: []string{FieldCounterpartyAddress},
				},
				{
					Title:          "File Private Complaint before Magistrate",
					Pros:           []string{"The court directs the inquiry", "Useful when police refuse to register"},
					Cons:           []string{"Slower than an FIR", "A lawyer is usually needed"},
					RequiredFields: []string{FieldPoliceApproached},
				},
			},
			Thresholds:    defaultThresholds(),
			MinConfidence: 0.5,
		},
		{
			Key:            DomainCyberFraud,
			IssueType:      "cyber_complaint",
			SubCategory:    "online_fraud",
			Guidance:       GuidanceCyber,
			RequiredFields: []string{FieldName, FieldDate, FieldAmount, FieldTransactionDetails, FieldDescription},
			OptionalFields: []string{FieldAccused, FieldEvidence},
			Priority:       DefaultPriority,
			RequiresAction: true,
			Actions: []ActionChoice{
				{
					Title:          "Report on National Cyber Crime Portal",
					Pros:           []string{"Can be filed online at any hour", "Banks are alerted to freeze the funds"},
					Cons:           []string{"Follow-up happens by email and phone only"},
					RequiredFields: []string{FieldTransactionDetails},
				},
				{
					Title:          "File FIR at Cyber Crime Cell",
					Pros:           []string{"Formal criminal investigation", "Useful for large losses"},
					Cons:           []string{"Requires a visit to the cell"},
					RequiredFields: []string{FieldLocation},
				},
			},
			Thresholds:    defaultThresholds(),
			MinConfidence: 0.5,
		},
		{
			Key:            DomainPropertyDispute,
			IssueType:      "civil_suit",
			SubCategory:    "property_dispute",
			Guidance:       GuidanceProperty,
			RequiredFields: []string{FieldName, FieldLocation, FieldPropertyDetails, FieldCounterparty, FieldDescription},
			OptionalFields: []string{FieldEvidence, FieldAmount},
			Priority:       DefaultPriority,
			Prompts: map[string]string{
				FieldLocation: "Where is this property located?",
				FieldEvidence: "Do you have a written rental agreement or lease deed?",
			},
			RequiresAction: true,
			Actions: []ActionChoice{
				{
					Title:          "Send Legal Notice",
					Pros:           []string{"Low cost", "Often resolves the dispute without litigation"},
					Cons:           []string{"Not binding on the other party"},
					RequiredFields: []string{FieldCounterpartyAddress},
				},
				{
					Title:          "File Civil Suit for Injunction",
					Pros:           []string{"Court order protects possession", "Binding and enforceable"},
					Cons:           []string{"Takes months to years", "Court fee and lawyer costs"},
					RequiredFields: []string{FieldPropertyDocuments},
				},
				{
					Title:          "Seek Mediation",
					Pros:           []string{"Faster and confidential", "Preserves the relationship"},
					Cons:           []string{"Both parties must agree to participate"},
					RequiredFields: nil,
				},
			},
			Thresholds:    defaultThresholds(),
			MinConfidence: 0.5,
		},
		{
			Key:            DomainConsumer,
			IssueType:      "consumer_complaint",
			SubCategory:    "defective_product",
			Guidance:       GuidanceConsumer,
			RequiredFields: []string{FieldName, FieldDate, FieldSeller, FieldProduct, FieldAmount, FieldDescription},
			OptionalFields: []string{FieldEvidence},
			Priority:       DefaultPriority,
			Thresholds:     defaultThresholds(),
			MinConfidence:  0.5,
		},
		{
			Key:            DomainGeneralComplaint,
			IssueType:      "general_complaint",
			SubCategory:    "general",
			Guidance:       GuidanceGeneric,
			RequiredFields: []string{FieldName, FieldDate, FieldLocation, FieldAccused, FieldDescription},
			OptionalFields: []string{FieldEvidence, FieldWitness, FieldRelationship},
			Priority:       DefaultPriority,
			Thresholds:     defaultThresholds(),
			MinConfidence:  0.5,
		},
	}
}

// DefaultRegistry returns a registry of the built-in profiles with the
// general complaint profile as fallback.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DomainGeneralComplaint, DefaultProfiles()...)
	if err != nil {
		panic(err)
	}
	return r
}

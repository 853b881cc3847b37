package document

type source struct {
	title string
	body  string
}

var sources = map[Kind]source{
	KindPoliceComplaint: {
		title: "COMPLAINT TO THE STATION HOUSE OFFICER",
		body: `{{.Title}}
Ref: {{if .ReferenceNumber}}{{.ReferenceNumber}}{{else}}-{{end}}
Date: {{.Dated}}

To,
{{if .Authority}}{{.Authority}}{{else}}The Station House Officer{{end}}
{{field .Fields "location" "[POLICE STATION AREA]"}}

Subject: Complaint regarding {{field .Fields "description" "an incident" | printf "%.60s"}}{{if gt (len (field .Fields "description" "")) 60}}...{{end}}

Respected Sir/Madam,

{{wrap (printf "I, %s, wish to report the following incident that took place on %s at %s." (field .Fields "name" "[NAME]") (field .Fields "date" "[DATE]") (field .Fields "location" "[LOCATION]"))}}

Details of the incident:
{{wrap (field .Fields "description" "")}}
{{if known .Fields "accused"}}
{{wrap (printf "The person responsible is %s." (field .Fields "accused" ""))}}
{{else}}
The identity of the person responsible is not known to me.
{{end}}{{if known .Fields "amount"}}
{{wrap (printf "The loss involved is %s." (field .Fields "amount" ""))}}
{{end}}
Particulars:
{{range .Facts}}  {{.Label}}: {{.Value}}
{{end}}{{if .SuggestedSections}}
Applicable provisions (indicative): {{join .SuggestedSections ", "}}
{{end}}
I request you to register this complaint and take appropriate action.

Yours faithfully,

____________________
{{field .Fields "name" "[NAME]"}}
`,
	},
	KindLegalNotice: {
		title: "LEGAL NOTICE",
		body: `{{.Title}}
Ref: {{if .ReferenceNumber}}{{.ReferenceNumber}}{{else}}-{{end}}
Date: {{.Dated}}

To,
{{field .Fields "counterparty" (field .Fields "accused" "[RECIPIENT NAME]")}}
{{field .Fields "counterparty_address" "[RECIPIENT ADDRESS]"}}

SUB: NOTICE FOR {{upper (field .Fields "description" "GRIEVANCE CAUSED" | printf "%.60s")}}
Ref: Incident dated {{field .Fields "date" "[DATE]"}}

Dear Sir/Madam,

{{wrap (printf "Under instruction from %s, residing at %s, you are hereby served with the following notice:" (field .Fields "name" "[NAME]") (field .Fields "location" "[ADDRESS]"))}}

{{wrap (printf "1. That on %s, you%s committed acts causing grievance, described as follows: %s" (field .Fields "date" "the stated date") (or (and (known .Fields "relationship") (printf " (%s)" (field .Fields "relationship" ""))) "") (field .Fields "description" ""))}}
{{if known .Fields "amount"}}
{{wrap (printf "2. That this matter involves a financial loss of %s." (field .Fields "amount" ""))}}
{{end}}
You are hereby called upon to comply with the above demands within 15 days
of receipt of this notice, failing which civil and criminal proceedings will
be initiated against you without further reference.

Yours faithfully,

____________________
{{field .Fields "name" "[NAME]"}}
`,
	},
	KindGeneralPetition: {
		title: "FORMAL COMPLAINT / PETITION",
		body: `{{.Title}}
Ref: {{if .ReferenceNumber}}{{.ReferenceNumber}}{{else}}-{{end}}
Date: {{.Dated}}

To,
{{if .Authority}}{{.Authority}}{{else}}The Competent Authority{{end}}

Subject: Complaint regarding {{if .SubCategory}}{{.SubCategory}}{{else}}an incident{{end}}

Respected Sir/Madam,

{{wrap (printf "I, %s, wish to report an incident." (field .Fields "name" "The Undersigned"))}}

Incident details:
{{wrap (field .Fields "description" "")}}

Detailed facts:
{{range .Facts}}  {{.Label}}: {{.Value}}
{{end}}
Please take appropriate action.

Signature

____________________
{{field .Fields "name" "[NAME]"}}
`,
	},
}

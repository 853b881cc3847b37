package intake

import "fmt"

// Guidance tells the principal where and how to file.
type Guidance struct {
	Authority        string   `json:"authority"`
	JurisdictionHint string   `json:"jurisdiction_hint"`
	Enclosures       []string `json:"enclosures"`
	NextSteps        []string `json:"next_steps"`
}

func (g Guidance) clone() Guidance {
	g.Enclosures = append([]string(nil), g.Enclosures...)
	g.NextSteps = append([]string(nil), g.NextSteps...)
	return g
}

// GuidanceFor is a pure function of the profile and the snapshot.
func GuidanceFor(p *Profile, entities EntityStore) Guidance {
	location := ""
	if entities.Filled(FieldLocation) {
		location = entities[FieldLocation].Value
	}

	switch p.Guidance {
	case GuidancePolice:
		g := Guidance{
			Authority:        "Station House Officer (SHO)",
			JurisdictionHint: "File at the Police Station covering the area where the incident happened.",
			Enclosures: []string{
				"Proof of Identity (Aadhar/PAN)",
				"Proof of Incident (Photos, Medical Report if assault)",
				"List of Stolen Items (if theft)",
			},
			NextSteps: []string{
				"Submit the complaint in duplicate (2 copies).",
				"Get a CSR receipt or FIR number immediately.",
				"If police refuse to file, send the complaint by Registered Post to the Superintendent of Police (SP).",
			},
		}
		if location != "" {
			g.JurisdictionHint = fmt.Sprintf("File at the Police Station with jurisdiction over %s.", location)
		}
		if entities.Filled(FieldWitness) {
			g.Enclosures = append(g.Enclosures, "Witness Details")
		}
		return g
	case GuidanceCyber:
		return Guidance{
			Authority:        "Cyber Crime Cell / National Cyber Crime Portal",
			JurisdictionHint: "Can be filed online at cybercrime.gov.in or at the nearest Cyber Cell.",
			Enclosures: []string{
				"Screenshots of the fraudulent transaction or profile",
				"Bank Statement highlighting the transaction",
				"URL of the website or social media profile",
			},
			NextSteps: []string{
				"Register the complaint on www.cybercrime.gov.in.",
				"Note down the Acknowledgement ID.",
				"Contact your bank to freeze the accounts involved.",
			},
		}
	case GuidanceConsumer:
		g := Guidance{
			Authority:        "District Consumer Disputes Redressal Commission",
			JurisdictionHint: "District Commission where you reside or where the seller does business.",
			Enclosures: []string{
				"Bill / Invoice of purchase",
				"Proof of defect (photos or expert report)",
				"Copies of previous complaints or emails sent to the seller",
			},
			NextSteps: []string{
				"Send a Legal Notice first and wait 15-30 days.",
				"If there is no response, file the consumer complaint online (e-Daakhil) or in person.",
				"Pay the nominal court fee online.",
			},
		}
		if location != "" {
			g.JurisdictionHint = fmt.Sprintf("District Commission for %s, or where the seller does business.", location)
		}
		return g
	case GuidanceProperty:
		g := Guidance{
			Authority:        "Civil Court / Revenue Divisional Officer (RDO)",
			JurisdictionHint: "Court within whose local limits the property is situated.",
			Enclosures: []string{
				"Title Deed / Sale Deed",
				"Patta / Chitta / Adangal extracts",
				"Encumbrance Certificate (EC)",
				"Survey Map",
			},
			NextSteps: []string{
				"Consult a lawyer for drafting a Civil Suit.",
				"Apply for an Injunction if there is a threat of dispossession.",
				"File a police complaint if there is criminal trespass.",
			},
		}
		if location != "" {
			g.JurisdictionHint = fmt.Sprintf("Civil Court within whose local limits %s is situated.", location)
		}
		return g
	default:
		return Guidance{
			Authority:        "Relevant Local Authority",
			JurisdictionHint: "Jurisdiction typically depends on where the incident occurred or where the other party resides.",
			Enclosures:       []string{"Identity Proof", "Any Relevant Documents"},
			NextSteps:        []string{"Consult a legal expert for specific advice."},
		}
	}
}

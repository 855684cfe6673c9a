package schema

// Register ids.
const (
	CrimeRegister         = "crime_register"
	InsadadiRegister      = "insadadi_register"
	MalkhanaRegister      = "malkhana_register"
	IndexRegister         = "index_register"
	PostingList           = "posting_list"
	PermanentWarrantyList = "permanent_warranty_list"
	HSList                = "hs_list"
	DutyRegister          = "duty_register"
)

// Crime register field ids used by reporting.
const (
	FieldCaseNumber     = "caseNumber"
	FieldSection        = "section"
	FieldDisposalType   = "disposalType"
	FieldDateRegistered = "dateRegistered"

	DisposalPending = "Pending"
)

var months = []string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"}

func text(id, label, labelHi string, required bool) FieldDefinition {
	return FieldDefinition{ID: id, Label: label, LabelHi: labelHi, Type: FieldText, Required: required}
}

func area(id, label, labelHi string, required bool) FieldDefinition {
	return FieldDefinition{ID: id, Label: label, LabelHi: labelHi, Type: FieldTextArea, Required: required}
}

func number(id, label, labelHi string, required bool) FieldDefinition {
	return FieldDefinition{ID: id, Label: label, LabelHi: labelHi, Type: FieldNumber, Required: required}
}

func date(id, label, labelHi string, required bool) FieldDefinition {
	return FieldDefinition{ID: id, Label: label, LabelHi: labelHi, Type: FieldDate, Required: required}
}

func choice(id, label, labelHi string, required bool, options ...string) FieldDefinition {
	return FieldDefinition{ID: id, Label: label, LabelHi: labelHi, Type: FieldSelect, Required: required, Options: options}
}

func defaultRegisters() []RegisterSchema {
	return []RegisterSchema{
		{
			ID: CrimeRegister, Name: "Crime Register", NameHi: "अपराध रजिस्टर",
			Fields: []FieldDefinition{
				text(FieldCaseNumber, "Case Number", "अपराध क्रमांक", true),
				date(FieldDateRegistered, "Date Registered", "दर्ज दिनांक", false),
				text(FieldSection, "Section", "धारा", true),
				area("complainant", "Complainant Name & Address", "परिवादी का नाम व पता", false),
				text("incidentLocation", "Incident Location/Date", "घटना स्थल/दिनांक", false),
				area("caseDetails", "Brief Case Details", "संक्षिप्त विवरण", false),
				text("investigatingOfficer", "Investigating Officer", "अनुसंधान अधिकारी", false),
				area("accused", "Accused Name & Address", "अभियुक्त का नाम व पता", false),
				choice(FieldDisposalType, "Disposal Type", "निस्तारण प्रकार", true,
					DisposalPending, "157-B", "Adam Vaku (Jhooth)", "Adam Vaku (Anya)", "Adam Pata", "Adam Saboot", "299 CrPC", "Challan"),
				area("result", "Result/Court Decision", "परिणाम/न्यायालय निर्णय", false),
				number("arrestedMale", "Arrested (Male)", "गिरफ्तार (पुरुष)", false),
				number("arrestedFemale", "Arrested (Female)", "गिरफ्तार (महिला)", false),
				number("stolenPropertyValue", "Value of Stolen Property", "माल मसरूखा", false),
				number("recoveredPropertyValue", "Value of Recovered Property", "माल बरामद", false),
			},
		},
		{
			ID: InsadadiRegister, Name: "Insadadi Register (Preventive Action)", NameHi: "इंसदादी रजिस्टर (निरोधात्मक कार्यवाही)",
			Fields: []FieldDefinition{
				choice("month", "Month", "माह", true, months...),
				text("actionTitle", "Preventive Action Title", "निरोधात्मक कार्यवाही शीर्षक", true),
				number("monthIstgasa", "Month Istgasa", "माह इस्तगासा", true),
				number("monthPaband", "Persons Restricted in Month", "माह में पाबंद व्यक्ति", true),
				number("yearIstgasa", "Year Istgasa", "वर्ष में इस्तगासा", true),
				number("yearPaband", "Persons Restricted in Year", "वर्ष में पाबंद व्यक्ति", true),
			},
		},
		{
			ID: MalkhanaRegister, Name: "Malkhana Register", NameHi: "मालखाना रजिस्टर",
			Fields: []FieldDefinition{
				text(FieldCaseNumber, "Case Number", "अपराध क्रमांक", true),
				text("itemNumber", "Item Number", "आइटम नंबर", true),
				area("itemDescription", "Item Description", "आइटम का विवरण", true),
				date("dateReceived", "Date of Receipt", "प्राप्ति की दिनांक", true),
				text("investigatingOfficer", "Investigating Officer", "अनुसंधान अधिकारी", false),
				date("sentToFSLDate", "Date Sent to FSL", "एफएसएल भेजने की दिनांक", false),
				date("receivedFromFSLDate", "Date Received from FSL", "एफएसएल से प्राप्ति की दिनांक", false),
				date("handoverDate", "Date of Handover", "सुपुर्दगी की दिनांक", false),
				{ID: "evidencePhoto", Label: "Evidence Photo", LabelHi: "साक्ष्य फोटो", Type: FieldFile},
			},
		},
		{
			ID: IndexRegister, Name: "Index Register", NameHi: "इंडेक्स रजिस्टर",
			Fields: []FieldDefinition{
				text("indexPageNumber", "Index Page No.", "इंडेक्स पृष्ठ संख्या", true),
				text("accusedName", "Accused Name", "अभियुक्त का नाम", true),
				text("fatherName", "Father's Name", "पिता का नाम", true),
				area("address", "Address", "पता", true),
				area("caseDetails", "Case Details (No, Date, Section, PS)", "केस विवरण (नं, दिनांक, धारा, थाना)", true),
				text("result", "Result/Court Decision", "परिणाम/न्यायालय निर्णय", false),
			},
		},
		{
			ID: PostingList, Name: "Posting List", NameHi: "तैनाती सूची",
			Fields: []FieldDefinition{
				text("officerName", "Officer/Staff Name", "अधिकारी/कर्मचारी का नाम", true),
				text("fatherName", "Father's Name", "पिता का नाम", false),
				area("address", "Address", "पता", false),
				text("orderNumberDate", "Order No. & Date", "आदेश क्रमांक एवं दिनांक", false),
				text("mobileNumber", "Mobile Number", "मोबाइल नंबर", false),
				text("ssoId", "SSO ID", "एसएसओ आईडी", false),
				area("otherDetails", "Other Details", "अन्य विवरण", false),
				{ID: "onDuty", Label: "Currently Posted", LabelHi: "वर्तमान में तैनात", Type: FieldCheckbox},
			},
		},
		{
			ID: PermanentWarrantyList, Name: "Permanent Warranty List", NameHi: "स्थाई वारंटी सूची",
			Fields: []FieldDefinition{
				text("warranteeName", "Warrantee Name", "वारंटी का नाम", true),
				text("fatherName", "Father's Name", "पिता का नाम", false),
				area("address", "Address", "पता", true),
				text(FieldCaseNumber, "Case Number", "अपराध क्रमांक", true),
				text(FieldSection, "Section", "धारा", true),
				text("courtCaseNumber", "Court Case Number", "न्यायालय केस नंबर", true),
				text("courtName", "Court Name", "न्यायालय का नाम", true),
			},
		},
		{
			ID: HSList, Name: "HS List", NameHi: "एचएस सूची",
			Fields: []FieldDefinition{
				text("hsName", "HS Name", "एचएस का नाम", true),
				text("fatherName", "Father's Name", "पिता का नाम", false),
				area("address", "Address", "पता", true),
				area("crimeDetails", "Crime Details (Case No, Date, Section, PS, Result)", "अपराध विवरण (केस नं, दिनांक, धारा, थाना, परिणाम)", true),
			},
		},
		{
			ID: DutyRegister, Name: "Duty Register", NameHi: "ड्यूटी रजिस्टर",
			Fields: []FieldDefinition{
				{
					ID: "officerId", Label: "Officer/Staff Name", LabelHi: "अधिकारी/कर्मचारी का नाम",
					Type: FieldSelect, Required: true,
					Lookup: &Lookup{RegisterID: PostingList, DisplayField: "officerName"},
				},
				choice("presence", "Presence", "उपस्थिति", true, "Present", "Absent"),
				choice("dutyType", "Duty Type", "ड्यूटी का प्रकार", true,
					"General", "Station Officer", "Surveillance", "Evening Patrol", "Night LC", "Mail Duty",
					"Outstation", "Reserve", "Night Sigma", "Leave", "Absent", "CCTN Operator", "Window Operator",
					"Investigation Assistant", "Malkhana Assistant", "Reader", "Intelligence I", "Intelligence II",
					"HM Admin", "HM Malkhana"),
				date("dutyDate", "Date", "दिनांक", true),
				area("details", "Details / Remarks", "विवरण / टिप्पणी", false),
			},
		},
	}
}

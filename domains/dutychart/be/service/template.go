package service

import "github.com/parsa000721/CopTrack/platform/go/models"

func person(sNo int, name, designation, details, presence string) models.DutyPersonnel {
	return models.DutyPersonnel{SNo: sNo, Name: name, Designation: designation, Details: details, Presence: presence}
}

// DefaultChart is the roster a station starts from on a day it has not edited yet.
func DefaultChart(stationID, date string) models.DutyChart {
	personnel := []models.DutyPersonnel{
		person(1, "श्री विक्रम सिंह", "पुलिस निरीक्षक", "SHO", models.PresencePresent),
		person(2, "श्री छितरलाल", "सउनि", "", models.PresencePresent),
		person(3, "श्री गोपालसिंह", "सउनि", "", models.PresencePresent),
		person(4, "श्री हरबानसिंह", "सउनि", "", models.PresencePresent),
		person(5, "श्री अमराराम", "सउनि", "", models.PresencePresent),
		person(6, "श्री अजीत सिंह", "हैडकानि 1438", "", models.PresencePresent),
		person(7, "श्री हबीब खां", "हैडकानि 1984", "", models.PresencePresent),
		person(8, "श्री रामस्वरूप", "हैडकानि 1611", "HM force", models.PresencePresent),
		person(9, "श्री हीरालाल", "हैडकानि 1310", "HM/M", models.PresenceAbsent),
		person(10, "श्री अमित", "कानि 755", "आसुचना", models.PresencePresent),
		person(11, "श्री प्रेमाराम", "कानि 3146", "आसुचना", models.PresencePresent),
		person(12, "श्री सहीराम", "कानि. 1359", "Crime LC", models.PresenceOutstation),
		person(13, "श्री रामनिवास", "कानि 1919", "M/LC", models.PresencePresent),
		person(14, "श्री ओमा राम", "कानि 2859", "CCTNS LC", models.PresencePresent),
		person(15, "श्री हरेन्द्र", "कानि 2209", "S/W LC", models.PresenceOutstation),
		person(16, "श्री परसाराम", "कानि 721", "WIN./LC", models.PresenceOutstation),
		person(17, "श्री शिवकरण", "कानि 1149", "Court LC", models.PresenceOutstation),
		person(18, "श्री अशोक", "कानि 3237", "SHO/LC", models.PresencePresent),
		person(19, "श्री सुखवीर", "कानि 640", "IO/LC", models.PresencePresent),
		person(20, "श्री हरिराम", "कानि 2398", "IO/LC", models.PresencePresent),
		person(21, "श्री सुरेन्द्र", "कानि 2836", "IO/LC", models.PresenceAbsent),
		person(22, "श्री जितेन्द्र", "कानि 2006", "", models.PresencePresent),
		person(23, "श्री गुलशन", "कानि 3175", "", models.PresencePresent),
		person(24, "श्री जगदीश", "कानि 2415", "", models.PresencePresent),
		person(25, "श्री अमित", "कानि 2972", "", models.PresencePresent),
		person(26, "श्री हेमाराम", "कानि 2101", "", models.PresenceAbsent),
		person(27, "श्री पूरण", "कानि 660", "", models.PresencePresent),
		person(28, "श्री भोजराज", "कानि 862", "", models.PresencePresent),
		person(29, "श्री सुरेन्द्र", "कानि. 1017", "", models.PresencePresent),
		person(30, "श्री देवेन्द्र", "कानि 1243", "", models.PresencePresent),
		person(31, "श्री नरसाराम", "कानि 1530", "", models.PresencePresent),
		person(32, "श्री धर्मपाल", "कानि 1714", "", models.PresencePresent),
		person(33, "श्री रिछपाल", "कानि 2613", "", models.PresencePresent),
		person(34, "श्री गजेन्द्र राम", "कानि 2423", "", models.PresencePresent),
		person(35, "श्री कैलाश", "कानि 2328", "", models.PresenceAbsent),
		person(36, "श्री रामदेव", "कानि 2399", "", models.PresenceOutstation),
		person(37, "श्रीमती संतोष", "मकानि 1921", "", models.PresenceAbsent),
		person(38, "सुश्री सुमन", "मकानि 1770", "P/LC", models.PresencePresent),
		person(39, "श्रीमती सुनीता", "मकानि 2303", "CS/FR", models.PresencePresent),
		person(40, "श्री मानसिंह", "कानि. 626", "Driver", models.PresencePresent),
		person(41, "श्री सुनील", "कानि 2035", "Driver", models.PresencePresent),
	}

	assignments := []models.DutyAssignment{
		{Title: "Upcoming DO 8.00 AM to 8.00 AM", Officers: []string{"01. श्री अमराराम सउनि", "02. श्री शेख कानि 2948", "03. श्री मानसिंह कानि. 626"}},
		{Title: "Surveillance", Officers: []string{"01.श्री योगेन्द्र कानि 1955", "02.श्री रमेश कानि. 2350"}},
		{Title: "Evening Patrol", Officers: []string{"01.श्रीमान थानाधिकारी महोदय", "02.श्री अजीत सिंह हैडकानि 1984", "03.श्री गजेन्द्र कानि 2423", "04.श्री अमित कानि. 2972", "05. श्री सुनील कानि 2035"}},
		{Title: "Night LC", Officers: []string{"श्री सुरेन्द्र कानि. 1017"}},
		{Title: "Leave", Officers: []string{}},
		{Title: "Absent", Officers: []string{"01. श्री हीरालाल 1310", "02. श्री हेमाराम कानि 2101", "03. श्रीमति संतोष मकानि 1921", "04. श्री सुरेन्द्र कानि 2836", "05. श्री कैलाश कानि 2328"}},
		{Title: "Mail Duty", Officers: []string{"श्री रिछपाल कानि 2613"}},
		{Title: "Outstation Duty", Officers: []string{"श्री शिवकरण कानि 1149", "श्री देवेन्द्र कानि 1243"}},
		{Title: "Reserve", Subtext: "withNightDO", Officers: []string{"श्री श्रवण कानि 1503"}},
		{Title: "Night Sigma", Officers: []string{"श्री धर्मपाल कानि. 1714", "श्री प्रधान कानि 486"}},
		{Title: "Tomorrow Day Sigma", Officers: []string{"श्री पूरणमल कानि. 680"}},
	}

	return models.DutyChart{
		StationID:   stationID,
		Date:        date,
		Personnel:   personnel,
		Assignments: assignments,
		Summary:     models.Summarize(personnel),
	}
}

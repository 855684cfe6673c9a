package datastore

import (
	"fmt"
	"time"

	"github.com/parsa000721/CopTrack/platform/go/models"
)

// SecretHasher turns a plaintext credential into its stored form.
type SecretHasher func(secret string) (string, error)

// SeedFunc builds the initial state written when no snapshot exists.
type SeedFunc func(now time.Time) (*State, error)

var seedStations = []models.Station{
	{ID: "ps_gegal", Name: "Gegal"},
	{ID: "ps_mangliyawas", Name: "Mangliyawas"},
	{ID: "ps_pisangan", Name: "Pisangan"},
	{ID: "ps_pushkar", Name: "Pushkar"},
	{ID: "ps_dargah", Name: "Dargah"},
	{ID: "ps_ganj", Name: "Ganj"},
	{ID: "ps_bhinai", Name: "Bhinai"},
	{ID: "ps_kekri_city", Name: "Kekri City"},
	{ID: "ps_kekri_sadar", Name: "Kekri Sadar"},
	{ID: "ps_sarana", Name: "Sarana"},
	{ID: "ps_sarwar", Name: "Sarwar"},
	{ID: "ps_sawar", Name: "Sawar"},
	{ID: "ps_gandhi_nagar", Name: "Gandhi Nagar"},
	{ID: "ps_kishangarh", Name: "Kishangarh"},
	{ID: "ps_madanganj", Name: "Madanganj"},
	{ID: "ps_arian", Name: "Arian"},
	{ID: "ps_bander_sindri", Name: "Bander Sindri"},
	{ID: "ps_borada", Name: "Borada"},
	{ID: "ps_rupangarh", Name: "Rupangarh"},
	{ID: "ps_nasirabad_city", Name: "Nasirabad City"},
	{ID: "ps_nasirabad_sadar", Name: "Nasirabad Sadar"},
	{ID: "ps_shri_nagar", Name: "Shri Nagar"},
	{ID: "ps_christiangunj", Name: "Christiangunj"},
	{ID: "ps_civil_lines", Name: "Civil Lines"},
	{ID: "ps_haribhau_upadhyay_nagar", Name: "Haribhau Upadhyay Nagar"},
	{ID: "ps_kotwali_ajmer", Name: "Kotwali Ajmer"},
	{ID: "ps_mahila", Name: "Mahila PS"},
	{ID: "ps_adarsh_nagar", Name: "Adarsh Nagar"},
	{ID: "ps_alwar_gate", Name: "Alwar Gate"},
	{ID: "ps_clock_tower", Name: "Clock Tower"},
	{ID: "ps_ramganj", Name: "Ramganj"},
	{ID: "ps_cyber_thana_ajmer", Name: "Cyber Thana Ajmer"},
}

// Seed ids referenced by tests and the CLI.
const (
	SeedAdminID   = "admin_user"
	SeedOfficerID = "user_insp_ram"
)

// DefaultSeed returns the initial district data: every station active, one administrator,
// one station officer and a handful of sample records.
func DefaultSeed(hash SecretHasher) SeedFunc {
	return func(now time.Time) (*State, error) {
		s := emptyState()

		for _, st := range seedStations {
			st.Active = true
			s.Stations = append(s.Stations, st)
		}

		s.Users = []models.User{
			{
				ID: SeedAdminID, Name: "Admin", Role: models.RoleAdmin,
				SSOID: "rajpoliceajmer", Email: "admin@rajpolice.gov",
				Mobile: "1234567890", Designation: "System Administrator",
			},
			{
				ID: SeedOfficerID, Name: "Insp. Ram Singh", Role: models.RoleStationOfficer,
				StationID: "ps_christiangunj", SSOID: "ram.singh.insp", Email: "ram.singh@rajpolice.gov",
				Mobile: "9876543210", Designation: "Inspector",
			},
		}

		secrets := map[string]string{"rajpoliceajmer": "Police@01ajmer", "ram.singh.insp": "password"}
		for sso, secret := range secrets {
			hashed, err := hash(secret)
			if err != nil {
				return nil, fmt.Errorf("hash seed credential %s: %w", sso, err)
			}
			s.Credentials[sso] = hashed
		}

		year := now.Year()
		today := models.Date(now)
		caseNo := models.Text(fmt.Sprintf("CR-001/%d", year))
		record := func(id, station, register string, fields map[string]models.Value) models.Record {
			return models.Record{
				ID: id, TenantID: station, RegisterID: register, Year: year,
				Fields: fields, CreatedBy: SeedOfficerID, CreatedAt: now, UpdatedAt: now,
			}
		}
		s.Records = []models.Record{
			record("rec_crime_1", "ps_christiangunj", "crime_register", map[string]models.Value{
				"caseNumber":     caseNo,
				"dateRegistered": today,
				"section":        models.Text("IPC 302"),
				"complainant":    models.Text("John Doe, Ajmer"),
				"disposalType":   models.Text("Pending"),
			}),
			record("rec_malkhana_1", "ps_christiangunj", "malkhana_register", map[string]models.Value{
				"caseNumber":      caseNo,
				"itemNumber":      models.Text("MK-001"),
				"itemDescription": models.Text("A sharp knife"),
				"dateReceived":    today,
			}),
			record("rec_posting_1", "ps_pushkar", "posting_list", map[string]models.Value{"officerName": models.Text("श्री विक्रम सिंह - पुनि")}),
			record("rec_posting_2", "ps_pushkar", "posting_list", map[string]models.Value{"officerName": models.Text("श्री गोपाल सिंह - सउनि")}),
			record("rec_posting_3", "ps_pushkar", "posting_list", map[string]models.Value{"officerName": models.Text("श्रीमति सुनिता - मकानि 2303")}),
		}

		s.ActivityLogs = []models.ActivityLog{
			{ID: "log1", UserID: SeedOfficerID, UserName: "Insp. Ram Singh", StationID: "ps_christiangunj", StationName: "Christiangunj", Action: "Added new record to Crime Register", Timestamp: now},
			{ID: "log2", UserID: SeedAdminID, UserName: "Admin", StationName: adminPanel, Action: "Deactivated Jodhpur East PS", Timestamp: now},
		}

		s.Notifications = []models.Notification{
			{ID: "notif1", UserID: SeedOfficerID, Type: models.NotificationTask, Message: "New task assigned: Patrol Route Update", Timestamp: now.Add(-5 * time.Minute)},
			{ID: "notif2", UserID: SeedOfficerID, Type: models.NotificationSystem, Message: "System will be down for maintenance tonight at 2 AM.", Timestamp: now.Add(-time.Hour), Read: true},
		}

		return s, nil
	}
}

// EmptySeed starts from a blank state; tests build their own fixtures on top.
func EmptySeed(time.Time) (*State, error) {
	return emptyState(), nil
}

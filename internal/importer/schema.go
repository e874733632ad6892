package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// FieldKey identifies a logical field independently of the CSV header
// spelling, which has drifted across file generations.
type FieldKey string

// Logical fields shared by the import profiles.
const (
	FieldLastName  FieldKey = "last_name"
	FieldFirstName FieldKey = "first_name"
	FieldEmail     FieldKey = "email"
	FieldPhone     FieldKey = "phone"
	FieldLatitude  FieldKey = "latitude"
	FieldLongitude FieldKey = "longitude"
	FieldPostal    FieldKey = "postal_code"
	FieldCity      FieldKey = "city"
	FieldDistrict  FieldKey = "district"
	FieldStatus    FieldKey = "status"
	FieldSubjects  FieldKey = "subjects"
	FieldNotes     FieldKey = "notes"

	// Student-specific fields.
	FieldGradeLevel      FieldKey = "grade_level"
	FieldSchool          FieldKey = "school"
	FieldStreetNumber    FieldKey = "street_number"
	FieldStreetName      FieldKey = "street_name"
	FieldAddress         FieldKey = "address"
	FieldParentLastName  FieldKey = "parent_last_name"
	FieldParentFirstName FieldKey = "parent_first_name"
	FieldParentPhone     FieldKey = "parent_phone"
	FieldParentEmail     FieldKey = "parent_email"

	// Volunteer-specific fields.
	FieldProfession      FieldKey = "profession"
	FieldGeoZone         FieldKey = "geo_zone"
	FieldTransport       FieldKey = "transport"
	FieldCoordinator     FieldKey = "coordinator"
	FieldPrimaryLevel    FieldKey = "primary_level"
	FieldMiddleLevel     FieldKey = "middle_level"
	FieldHighLevel       FieldKey = "high_level"
	FieldPhotoProvided   FieldKey = "photo_provided"
	FieldChatGroup       FieldKey = "chat_group"
	FieldFileComplete    FieldKey = "file_complete"
	FieldOutlook         FieldKey = "outlook"
	FieldExtranet        FieldKey = "extranet"
	FieldWelcomeMeeting  FieldKey = "welcome_meeting"
	FieldBackgroundCheck FieldKey = "background_check"
	FieldContactOrigin   FieldKey = "contact_origin"
	FieldContactDate     FieldKey = "contact_date"
	FieldAvailability    FieldKey = "availability"
	FieldExtraNotes      FieldKey = "extra_notes"

	// Pairing-specific fields.
	FieldVolunteerLastName  FieldKey = "volunteer_last_name"
	FieldVolunteerFirstName FieldKey = "volunteer_first_name"
	FieldStartDate          FieldKey = "start_date"
)

// Profile maps logical fields to the header spellings that may carry them,
// in priority order. Column-name drift across file generations is isolated
// here instead of being scattered through the pipeline.
type Profile struct {
	Name    string
	Columns map[FieldKey][]string
}

// StudentProfile matches the student export files.
var StudentProfile = Profile{
	Name: "students",
	Columns: map[FieldKey][]string{
		FieldLastName:        {"Nom famille enfant", "Nom"},
		FieldFirstName:       {"Prénom enfant", "Prénom"},
		FieldPhone:           {"Téléphone enfant", "Téléphone"},
		FieldParentLastName:  {"Nom parent"},
		FieldParentFirstName: {"Prénom parent"},
		FieldParentPhone:     {"Téléphone parent"},
		FieldParentEmail:     {"Email parent", "Email"},
		FieldGradeLevel:      {"Classe"},
		FieldSchool:          {"Établissement", "Ecole"},
		FieldAddress:         {"Adresse enfant", "Adresse"},
		FieldPostal:          {"Code postal"},
		FieldCity:            {"Ville"},
		FieldDistrict:        {"Arr.", "Arrondissement"},
		FieldStatus:          {"Statut"},
		FieldSubjects:        {"Matières souhaitées", "Matières"},
		FieldNotes:           {"Commentaires"},
		FieldLatitude:        {"latitude"},
		FieldLongitude:       {"longitude"},
	},
}

// VolunteerProfile matches the volunteer export files.
var VolunteerProfile = Profile{
	Name: "volunteers",
	Columns: map[FieldKey][]string{
		FieldLastName:        {"Nom"},
		FieldFirstName:       {"Prénom"},
		FieldEmail:           {"Email"},
		FieldPhone:           {"Téléphone"},
		FieldProfession:      {"Profession"},
		FieldAddress:         {"Adresse"},
		FieldPostal:          {"Code postal"},
		FieldCity:            {"Ville"},
		FieldGeoZone:         {"Zone géographique"},
		FieldTransport:       {"Moyen de déplacement"},
		FieldStatus:          {"Statut"},
		FieldSubjects:        {"Matières"},
		FieldCoordinator:     {"est_responsable"},
		FieldPrimaryLevel:    {"Primaire"},
		FieldMiddleLevel:     {"Collège"},
		FieldHighLevel:       {"Lycée"},
		FieldPhotoProvided:   {"a_donne_photo"},
		FieldChatGroup:       {"est_ajoute_au groupe_WhatsApp", "est_ajoute_au_groupe_WhatsApp"},
		FieldFileComplete:    {"fichier"},
		FieldOutlook:         {"Outlook"},
		FieldExtranet:        {"Extranet"},
		FieldWelcomeMeeting:  {"Réunion d'accueil faite"},
		FieldBackgroundCheck: {"Volet 3 casier judiciaire"},
		FieldContactOrigin:   {"Origine_contact"},
		FieldContactDate:     {"Date_contact"},
		FieldAvailability:    {"Disponibilites_competences"},
		FieldNotes:           {"Commentaires"},
		FieldExtraNotes:      {"Divers", "Informations_complementaires"},
		FieldLatitude:        {"latitude"},
		FieldLongitude:       {"longitude"},
	},
}

// PairingProfile matches the pairing ("binômes") files.
var PairingProfile = Profile{
	Name: "pairings",
	Columns: map[FieldKey][]string{
		FieldLastName:           {"Nom famille enfant", "Nom élève", "Nom enfant"},
		FieldFirstName:          {"Prénom enfant", "Prénom élève"},
		FieldVolunteerLastName:  {"Nom famille bénévole", "Nom bénévole"},
		FieldVolunteerFirstName: {"Prénom bénévole"},
		FieldStartDate:          {"Date début", "Date de début"},
		FieldNotes:              {"Commentaires"},
	},
}

// Row is a schema-mapped CSV record. Line is the 1-based line number in the
// source file, headers included, for operator-facing diagnostics.
type Row struct {
	Line   int
	values map[FieldKey]string
}

// Get returns the raw cell for the field, or "" when the column is absent.
func (r Row) Get(key FieldKey) string {
	return r.values[key]
}

// Text returns the trimmed cell for the field.
func (r Row) Text(key FieldKey) string {
	return CleanText(r.values[key])
}

// ReadRows reads a header-keyed CSV stream and maps each record through the
// profile. A malformed stream is fatal: there is nothing useful to report
// per row when the file itself cannot be parsed.
func ReadRows(r io.Reader, profile Profile) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	// Resolve each logical field to a column index once.
	indexes := make(map[FieldKey]int, len(profile.Columns))
	for key, candidates := range profile.Columns {
		for _, candidate := range candidates {
			for i, col := range header {
				if strings.EqualFold(strings.TrimSpace(col), candidate) {
					indexes[key] = i
					break
				}
			}
			if _, ok := indexes[key]; ok {
				break
			}
		}
	}

	var rows []Row
	line := 1
	for {
		record, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record at line %d: %w", line, err)
		}

		values := make(map[FieldKey]string, len(indexes))
		for key, idx := range indexes {
			if idx < len(record) {
				values[key] = record[idx]
			}
		}
		rows = append(rows, Row{Line: line, values: values})
	}
	return rows, nil
}

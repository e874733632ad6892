package importer

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/esa-marseille/esa-manager/internal/app/models"
	"github.com/esa-marseille/esa-manager/internal/pkg/apperrors"
)

// Mode controls what happens when the natural key matches an existing row.
type Mode int

const (
	// CreateOnly skips rows whose natural key already exists.
	CreateOnly Mode = iota
	// CreateOrUpdate overwrites every mapped field of an existing row with
	// the CSV values. A blank cell erases the stored value; update is a
	// full overwrite, not a merge.
	CreateOrUpdate
)

type rowOutcome int

const (
	outcomeCreated rowOutcome = iota
	outcomeUpdated
	outcomeSkippedExists
	outcomeSkippedNotFound
	outcomeSkippedActive
)

// studentStatusTokens maps CSV status spellings to workflow statuses.
var studentStatusTokens = map[string]models.StudentStatus{
	"accompagné":    models.StudentMatched,
	"accompagne":    models.StudentMatched,
	"à accompagner": models.StudentToBeMatched,
	"a accompagner": models.StudentToBeMatched,
	"en attente":    models.StudentPending,
	"archivé":       models.StudentArchived,
	"archive":       models.StudentArchived,
}

func studentStatusFromCSV(raw string) models.StudentStatus {
	if status, ok := studentStatusTokens[strings.ToLower(CleanText(raw))]; ok {
		return status
	}
	return models.StudentToBeMatched
}

// volunteerStatusTokens maps CSV status spellings to volunteer statuses.
var volunteerStatusTokens = map[string]models.VolunteerStatus{
	"mentor":       models.VolunteerMentor,
	"disponible":   models.VolunteerAvailable,
	"indisponible": models.VolunteerUnavailable,
	"candidat":     models.VolunteerCandidate,
	"candidate":    models.VolunteerCandidate,
	"archivé":      models.VolunteerArchived,
	"archive":      models.VolunteerArchived,
}

func volunteerStatusFromCSV(raw string) models.VolunteerStatus {
	if status, ok := volunteerStatusTokens[strings.ToLower(CleanText(raw))]; ok {
		return status
	}
	return models.VolunteerCandidate
}

// splitAddress separates a one-cell postal address into street number and
// street name. The number is the leading digit run, with an optional
// "bis"/"ter" suffix.
func splitAddress(address string) (number, street string) {
	addr := CleanText(address)
	if addr == "" {
		return "", ""
	}
	i := 0
	for i < len(addr) && addr[i] >= '0' && addr[i] <= '9' {
		i++
	}
	if i == 0 {
		return "", addr
	}
	number = addr[:i]
	rest := strings.TrimSpace(addr[i:])
	lower := strings.ToLower(rest)
	for _, suffix := range []string{"bis", "ter"} {
		if strings.HasPrefix(lower, suffix) && (len(rest) == len(suffix) || unicode.IsSpace(rune(rest[len(suffix)]))) {
			number += " " + rest[:len(suffix)]
			rest = strings.TrimSpace(rest[len(suffix):])
			break
		}
	}
	return number, strings.TrimLeft(rest, ", ")
}

// buildStudent maps a schema-mapped row onto a student model. The district
// cell may carry a raw postal code; it is normalized here.
func buildStudent(row Row, cityPrefix string) *models.Student {
	number, street := splitAddress(row.Get(FieldAddress))
	if n := row.Text(FieldStreetNumber); n != "" {
		number = n
	}
	if s := row.Text(FieldStreetName); s != "" {
		street = s
	}

	district := NormalizeDistrict(row.Get(FieldDistrict), cityPrefix)
	if district == "" {
		district = NormalizeDistrict(row.Get(FieldPostal), cityPrefix)
	}

	return &models.Student{
		LastName:        row.Text(FieldLastName),
		FirstName:       row.Text(FieldFirstName),
		Phone:           row.Text(FieldPhone),
		ParentLastName:  row.Text(FieldParentLastName),
		ParentFirstName: row.Text(FieldParentFirstName),
		ParentPhone:     row.Text(FieldParentPhone),
		ParentEmail:     row.Text(FieldParentEmail),
		GradeLevel:      row.Text(FieldGradeLevel),
		School:          row.Text(FieldSchool),
		StreetNumber:    number,
		StreetName:      street,
		PostalCode:      row.Text(FieldPostal),
		City:            row.Text(FieldCity),
		District:        district,
		Latitude:        ParseDecimal(row.Get(FieldLatitude)),
		Longitude:       ParseDecimal(row.Get(FieldLongitude)),
		Status:          studentStatusFromCSV(row.Get(FieldStatus)),
		EntryStatus:     models.EntryComplete,
		Notes:           row.Text(FieldNotes),
	}
}

// buildVolunteer maps a schema-mapped row onto a volunteer model.
func buildVolunteer(row Row, cityPrefix string) *models.Volunteer {
	number, street := splitAddress(row.Get(FieldAddress))
	postal := row.Text(FieldPostal)

	return &models.Volunteer{
		LastName:           row.Text(FieldLastName),
		FirstName:          row.Text(FieldFirstName),
		Email:              row.Text(FieldEmail),
		Phone:              row.Text(FieldPhone),
		Profession:         row.Text(FieldProfession),
		StreetNumber:       number,
		StreetName:         street,
		PostalCode:         postal,
		City:               row.Text(FieldCity),
		District:           NormalizeDistrict(postal, cityPrefix),
		GeoZone:            row.Text(FieldGeoZone),
		Transport:          row.Text(FieldTransport),
		Latitude:           ParseDecimal(row.Get(FieldLatitude)),
		Longitude:          ParseDecimal(row.Get(FieldLongitude)),
		Status:             volunteerStatusFromCSV(row.Get(FieldStatus)),
		IsCoordinator:      ParseBool(row.Get(FieldCoordinator)),
		PrimaryLevel:       ParseBool(row.Get(FieldPrimaryLevel)),
		MiddleLevel:        ParseBool(row.Get(FieldMiddleLevel)),
		HighLevel:          ParseBool(row.Get(FieldHighLevel)),
		PhotoProvided:      ParseBool(row.Get(FieldPhotoProvided)),
		ChatGroupAdded:     ParseBool(row.Get(FieldChatGroup)),
		FileComplete:       ParseBool(row.Get(FieldFileComplete)),
		OutlookAdded:       ParseBool(row.Get(FieldOutlook)),
		ExtranetAdded:      ParseBool(row.Get(FieldExtranet)),
		WelcomeMeetingDone: ParseBool(row.Get(FieldWelcomeMeeting)),
		BackgroundCheck:    row.Text(FieldBackgroundCheck),
		ContactOrigin:      row.Text(FieldContactOrigin),
		ContactDate:        row.Text(FieldContactDate),
		Availability:       row.Text(FieldAvailability),
		Notes:              row.Text(FieldNotes),
		ExtraNotes:         row.Text(FieldExtraNotes),
	}
}

// importStudentRow runs steps 3-6 of the per-row pipeline for a student.
// Matching here is exact only: during data entry, fuzzy matching could merge
// distinct same-named people.
func importStudentRow(ctx context.Context, stores Stores, cache *SubjectCache, row Row, mode Mode, cityPrefix string) (rowOutcome, error) {
	incoming := buildStudent(row, cityPrefix)

	existing, err := stores.Students.FindExact(ctx, incoming.LastName, incoming.FirstName)
	switch {
	case err == nil:
		if mode == CreateOnly {
			return outcomeSkippedExists, nil
		}
		incoming.ID = existing.ID
		if err := stores.Students.Update(ctx, incoming); err != nil {
			return 0, err
		}
		if err := attachStudentSubjects(ctx, stores, cache, row, incoming.ID); err != nil {
			return 0, err
		}
		return outcomeUpdated, nil

	case errors.Is(err, apperrors.ErrStudentNotFound):
		id, err := stores.Students.Create(ctx, incoming)
		if err != nil {
			return 0, err
		}
		if err := attachStudentSubjects(ctx, stores, cache, row, id); err != nil {
			return 0, err
		}
		return outcomeCreated, nil

	default:
		return 0, err
	}
}

// importVolunteerRow runs steps 3-6 of the per-row pipeline for a volunteer.
func importVolunteerRow(ctx context.Context, stores Stores, cache *SubjectCache, row Row, mode Mode, cityPrefix string) (rowOutcome, error) {
	incoming := buildVolunteer(row, cityPrefix)

	existing, err := stores.Volunteers.FindExact(ctx, incoming.LastName, incoming.FirstName)
	switch {
	case err == nil:
		if mode == CreateOnly {
			return outcomeSkippedExists, nil
		}
		incoming.ID = existing.ID
		if err := stores.Volunteers.Update(ctx, incoming); err != nil {
			return 0, err
		}
		if err := attachVolunteerSubjects(ctx, stores, cache, row, incoming.ID); err != nil {
			return 0, err
		}
		return outcomeUpdated, nil

	case errors.Is(err, apperrors.ErrVolunteerNotFound):
		id, err := stores.Volunteers.Create(ctx, incoming)
		if err != nil {
			return 0, err
		}
		if err := attachVolunteerSubjects(ctx, stores, cache, row, id); err != nil {
			return 0, err
		}
		return outcomeCreated, nil

	default:
		return 0, err
	}
}

// Subject links are attached after the entity is persisted: the join rows
// need the owning row to already have an identity.
func attachStudentSubjects(ctx context.Context, stores Stores, cache *SubjectCache, row Row, studentID int64) error {
	ids := cache.ResolveLogged(row.Get(FieldSubjects), row.Line)
	return stores.Students.ReplaceSubjects(ctx, studentID, ids)
}

func attachVolunteerSubjects(ctx context.Context, stores Stores, cache *SubjectCache, row Row, volunteerID int64) error {
	ids := cache.ResolveLogged(row.Get(FieldSubjects), row.Line)
	return stores.Volunteers.ReplaceSubjects(ctx, volunteerID, ids)
}

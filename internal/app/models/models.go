package models

// StudentStatus is the support workflow state of a student.
type StudentStatus string

const (
	StudentToBeMatched StudentStatus = "to_be_matched"
	StudentMatched     StudentStatus = "matched"
	StudentPending     StudentStatus = "pending"
	StudentArchived    StudentStatus = "archived"
)

// EntryStatus tracks data-entry completeness of a student record,
// independently of the support workflow.
type EntryStatus string

const (
	EntryDraft    EntryStatus = "draft"
	EntryComplete EntryStatus = "complete"
)

// VolunteerStatus is the availability/role state of a volunteer.
type VolunteerStatus string

const (
	VolunteerMentor      VolunteerStatus = "mentor"
	VolunteerAvailable   VolunteerStatus = "available"
	VolunteerUnavailable VolunteerStatus = "unavailable"
	VolunteerCandidate   VolunteerStatus = "candidate"
	VolunteerArchived    VolunteerStatus = "archived"
)

// GradeLevels recognized by the association, primary school through
// vocational tracks. Free text outside this list is kept as-is.
var GradeLevels = []string{
	"CP", "CE1", "CE2", "CM1", "CM2",
	"6e", "5e", "4e", "3e",
	"2de", "1re", "Terminale",
	"CAP", "ULIS",
}

package models

// Staff types.
const (
	StaffLecturer   = "dosen"
	StaffEducation  = "tendik"
	StaffLeadership = "pimpinan"
)

// Staff is an entry of the staff directory.
type Staff struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	NIP            *string `json:"nip"`
	Position       string  `json:"position"`
	Title          *string `json:"title"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	Photo          *string `json:"photo"`
	Education      *string `json:"education"`
	Expertise      *string `json:"expertise"`
	Bio            *string `json:"bio"`
	ProgramStudyID *int    `json:"program_study_id"`
	StaffType      string  `json:"staff_type"`
	Order          int     `json:"order"`
	IsActive       bool    `json:"is_active"`
}

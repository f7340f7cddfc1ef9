package waitingroom

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DisplayMode controls how much of a patient's name the public screen shows.
type DisplayMode string

const (
	DisplayFullName      DisplayMode = "full_name"
	DisplayFirstNameOnly DisplayMode = "first_name_only"
	DisplayInitials      DisplayMode = "initials"
	DisplayAnonymous     DisplayMode = "anonymous"
)

func (m DisplayMode) Valid() bool {
	switch m {
	case DisplayFullName, DisplayFirstNameOnly, DisplayInitials, DisplayAnonymous:
		return true
	}
	return false
}

// Patient is the snapshot of a patient taken when they are called.
type Patient struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Doctor is the snapshot of the practitioner receiving the patient.
type Doctor struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Call is one announcement. It is immutable once created.
type Call struct {
	ID          uuid.UUID   `json:"id"`
	Patient     Patient     `json:"patient"`
	Doctor      Doctor      `json:"doctor"`
	Cabinet     string      `json:"cabinet"`
	CreatedAt   time.Time   `json:"createdAt"`
	DisplayMode DisplayMode `json:"displayMode"`
	QueueNumber int         `json:"queueNumber"`
}

// PatientLabel renders the patient's name with the mode stamped on the call.
func (c Call) PatientLabel() string {
	first := strings.TrimSpace(c.Patient.FirstName)
	last := strings.TrimSpace(c.Patient.LastName)

	switch c.DisplayMode {
	case DisplayFullName:
		return strings.TrimSpace(first + " " + last)
	case DisplayInitials:
		parts := make([]string, 0, 2)
		for _, n := range []string{first, last} {
			if r, _ := utf8.DecodeRuneInString(n); r != utf8.RuneError {
				parts = append(parts, string(unicode.ToUpper(r))+".")
			}
		}
		return strings.Join(parts, " ")
	case DisplayAnonymous:
		return fmt.Sprintf("Patient n°%d", c.QueueNumber)
	default:
		return first
	}
}

// DoctorLabel renders the practitioner as shown on the waiting-room screen.
func (c Call) DoctorLabel() string {
	parts := []string{"Dr."}
	for _, n := range []string{c.Doctor.FirstName, c.Doctor.LastName} {
		if n = strings.TrimSpace(n); n != "" {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, " ")
}

func validateCall(p Patient, d Doctor, cabinet string) error {
	switch {
	case strings.TrimSpace(p.ID) == "":
		return fmt.Errorf("%w: patient id is required", ErrInvalidCall)
	case strings.TrimSpace(p.FirstName) == "":
		return fmt.Errorf("%w: patient first name is required", ErrInvalidCall)
	case strings.TrimSpace(d.ID) == "":
		return fmt.Errorf("%w: doctor id is required", ErrInvalidCall)
	case strings.TrimSpace(d.FirstName) == "" && strings.TrimSpace(d.LastName) == "":
		return fmt.Errorf("%w: doctor name is required", ErrInvalidCall)
	case strings.TrimSpace(cabinet) == "":
		return fmt.Errorf("%w: cabinet label is required", ErrInvalidCall)
	}
	return nil
}

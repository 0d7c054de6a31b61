package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"ai-assistant-server/internal/llm"
)

// Extraction structs mirror the JSON schemas the model is prompted with.
// Every field is a pointer so "not mentioned" (null) is distinguishable from
// an empty value.

type doctorRegistration struct {
	FirstName       *string  `json:"first_name"`
	LastName        *string  `json:"last_name"`
	Email           *string  `json:"email"`
	Phone           *string  `json:"phone"`
	Specialization  *string  `json:"specialization"`
	LicenseNumber   *string  `json:"license_number"`
	ExperienceYears *int     `json:"experience_years"`
	ConsultationFee *float64 `json:"consultation_fee"`
}

type patientRegistration struct {
	FirstName             *string `json:"first_name"`
	LastName              *string `json:"last_name"`
	Email                 *string `json:"email"`
	Phone                 *string `json:"phone"`
	DateOfBirth           *string `json:"date_of_birth"`
	Gender                *string `json:"gender"`
	Address               *string `json:"address"`
	EmergencyContactName  *string `json:"emergency_contact_name"`
	EmergencyContactPhone *string `json:"emergency_contact_phone"`
}

type specializationRegistration struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type availabilityRegistration struct {
	DoctorName          *string `json:"doctor_name"`
	DayOfWeek           *int    `json:"day_of_week"`
	StartTime           *string `json:"start_time"`
	EndTime             *string `json:"end_time"`
	SlotDurationMinutes *int    `json:"slot_duration"`
	MaxPatientsPerSlot  *int    `json:"max_patients_per_slot"`
}

type appointmentDetails struct {
	DoctorName         *string `json:"doctor_name"`
	PatientName        *string `json:"patient_name"`
	AppointmentDate    *string `json:"appointment_date"`
	AppointmentTime    *string `json:"appointment_time"`
	NewAppointmentDate *string `json:"new_appointment_date"`
	NewAppointmentTime *string `json:"new_appointment_time"`
	ReasonForVisit     *string `json:"reason_for_visit"`
	AppointmentID      *string `json:"appointment_id"`
}

const jsonInstruction = "Return a JSON object with these fields. If a field is not mentioned, " +
	"use null. Do not include any explanation, just the JSON.\nUser request: "

const doctorRegistrationPrompt = "Extract the following details from the user's request for doctor registration:\n" +
	"- first_name (string)\n" +
	"- last_name (string)\n" +
	"- email (string)\n" +
	"- phone (string, optional)\n" +
	"- specialization (string, e.g. 'Cardiology', optional)\n" +
	"- license_number (string, optional)\n" +
	"- experience_years (integer, optional)\n" +
	"- consultation_fee (number, optional)\n" + jsonInstruction

const patientRegistrationPrompt = "Extract the following details from the user's request for patient registration:\n" +
	"- first_name (string)\n" +
	"- last_name (string)\n" +
	"- email (string)\n" +
	"- phone (string, optional)\n" +
	"- date_of_birth (YYYY-MM-DD, optional)\n" +
	"- gender (string: 'Male', 'Female' or 'Other', optional)\n" +
	"- address (string, optional)\n" +
	"- emergency_contact_name (string, optional)\n" +
	"- emergency_contact_phone (string, optional)\n" + jsonInstruction

const specializationRegistrationPrompt = "Extract the following details from the user's request for specialization registration:\n" +
	"- name (string, required) - the name of the specialization\n" +
	"- description (string, optional)\n" + jsonInstruction

const availabilityRegistrationPrompt = "Extract the following details from the user's request for doctor availability registration:\n" +
	"- doctor_name (string, first and last name of the doctor)\n" +
	"- day_of_week (integer: 0=Sunday, 1=Monday, 2=Tuesday, 3=Wednesday, 4=Thursday, 5=Friday, 6=Saturday)\n" +
	"- start_time (string, HH:MM format, 24-hour)\n" +
	"- end_time (string, HH:MM format, 24-hour)\n" +
	"- slot_duration (integer, minutes, optional, default 30)\n" +
	"- max_patients_per_slot (integer, optional, default 1)\n" + jsonInstruction

const appointmentDetailsPrompt = "Extract the following details from the user's request for an appointment %s:\n" +
	"- doctor_name (first and last, if available)\n" +
	"- patient_name (first and last, if available)\n" +
	"- appointment_date (YYYY-MM-DD)\n" +
	"- appointment_time (HH:MM, 24h)\n" +
	"- new_appointment_date (for reschedule, if present)\n" +
	"- new_appointment_time (for reschedule, if present)\n" +
	"- reason_for_visit (if present)\n" +
	"- appointment_id (string, if present)\n" + jsonInstruction

// extract asks the model for a constrained JSON object and decodes it into T.
func extract[T any](ctx context.Context, chatter Chatter, prompt string) (T, error) {
	var out T
	reply, err := chatter.Chat(ctx, prompt)
	if err != nil {
		return out, fmt.Errorf("%w: extraction call failed: %v", ErrParse, err)
	}
	if err := json.Unmarshal([]byte(llm.StripFence(reply)), &out); err != nil {
		return out, fmt.Errorf("%w: extraction returned malformed JSON: %v", ErrParse, err)
	}
	return out, nil
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func intOrDefault(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func floatOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

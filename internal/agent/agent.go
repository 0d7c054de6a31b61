package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"ai-assistant-server/internal/llm"
	"ai-assistant-server/internal/models"
	"ai-assistant-server/internal/scheduling"
	"ai-assistant-server/internal/store"
)

// ErrParse means the command was recognized but its required fields could not
// be extracted. The caller surfaces a clarification request, never a guess.
var ErrParse = errors.New("could not parse command")

// Chatter answers a free-text prompt via the language model.
type Chatter interface {
	Chat(ctx context.Context, prompt string) (string, error)
}

// Store is the data access the dispatcher needs. *store.Store satisfies it.
type Store interface {
	CreateDoctor(ctx context.Context, doctor *models.Doctor) error
	GetDoctor(ctx context.Context, id string) (*models.Doctor, error)
	FindDoctorByName(ctx context.Context, name string) (*models.Doctor, error)
	SearchDoctors(ctx context.Context, query string) ([]models.Doctor, error)
	CreatePatient(ctx context.Context, patient *models.Patient) error
	GetPatient(ctx context.Context, id string) (*models.Patient, error)
	FindPatientByName(ctx context.Context, name string) (*models.Patient, error)
	SearchPatients(ctx context.Context, query string) ([]models.Patient, error)
	GetOrCreateSpecialization(ctx context.Context, name string) (*models.Specialization, error)
	CreateSpecialization(ctx context.Context, spec *models.Specialization) error
	CreateAvailability(ctx context.Context, availability *models.DoctorAvailability) error
	ListAvailability(ctx context.Context, doctorID string) ([]models.DoctorAvailability, error)
	CreateAppointment(ctx context.Context, appointment *models.Appointment) error
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)
	ListAppointments(ctx context.Context, filter store.AppointmentFilter) ([]models.Appointment, error)
	RescheduleAppointment(ctx context.Context, id, date, clock string) error
	CancelAppointment(ctx context.Context, id string) error
	SelectRows(ctx context.Context, query string) ([]map[string]interface{}, error)
}

// Response is the structured result of one agent command.
type Response struct {
	Success          bool                     `json:"success"`
	Message          string                   `json:"message"`
	Details          interface{}              `json:"details,omitempty"`
	DoctorID         string                   `json:"doctor_id,omitempty"`
	PatientID        string                   `json:"patient_id,omitempty"`
	AppointmentID    string                   `json:"appointment_id,omitempty"`
	SpecializationID string                   `json:"specialization_id,omitempty"`
	AvailabilityID   string                   `json:"availability_id,omitempty"`
	Results          []map[string]interface{} `json:"results,omitempty"`
	SQL              string                   `json:"sql,omitempty"`
}

func failure(message string) Response {
	return Response{Success: false, Message: message}
}

// Agent maps free-text commands to scheduling operations.
type Agent struct {
	llm   Chatter
	store Store
}

// New creates an Agent.
func New(chatter Chatter, st Store) *Agent {
	return &Agent{llm: chatter, store: st}
}

// HandleQuestion classifies, extracts and executes one natural-language
// command. Errors come back as {success:false, message} payloads; the
// function itself only fails on unexpected internal conditions.
func (a *Agent) HandleQuestion(ctx context.Context, question string) Response {
	intent := ClassifyIntent(question)

	switch intent {
	case IntentRegisterDoctor:
		return a.registerDoctor(ctx, question)
	case IntentRegisterPatient:
		return a.registerPatient(ctx, question)
	case IntentRegisterSpecialization:
		return a.registerSpecialization(ctx, question)
	case IntentRegisterAvailability:
		return a.registerAvailability(ctx, question)
	case IntentBookAppointment:
		return a.bookAppointment(ctx, question)
	case IntentCancelAppointment:
		return a.cancelAppointment(ctx, question)
	case IntentRescheduleAppointment:
		return a.rescheduleAppointment(ctx, question)
	case IntentQuery:
		return a.query(ctx, question)
	case IntentHelp:
		return Response{Success: true, Message: helpMessage}
	default:
		return failure("I didn't understand that request. " + helpMessage)
	}
}

func (a *Agent) registerDoctor(ctx context.Context, question string) Response {
	details, err := extract[doctorRegistration](ctx, a.llm, doctorRegistrationPrompt+question)
	if err != nil {
		log.Printf("doctor registration extraction failed: %v", err)
		return failure("I couldn't understand the doctor details. Please provide first name, last name and email.")
	}
	if details.FirstName == nil || details.LastName == nil || details.Email == nil {
		return failure("Missing required details for doctor registration (first name, last name, email).")
	}

	doctor := &models.Doctor{
		FirstName:       *details.FirstName,
		LastName:        *details.LastName,
		Email:           *details.Email,
		Phone:           strOrEmpty(details.Phone),
		LicenseNumber:   strOrEmpty(details.LicenseNumber),
		ExperienceYears: intOrDefault(details.ExperienceYears, 0),
		ConsultationFee: floatOrZero(details.ConsultationFee),
		IsActive:        true,
	}
	if details.Specialization != nil && *details.Specialization != "" {
		spec, err := a.store.GetOrCreateSpecialization(ctx, *details.Specialization)
		if err != nil {
			return failure("Failed to resolve the specialization: " + err.Error())
		}
		doctor.SpecializationID = &spec.ID
	}

	if err := a.store.CreateDoctor(ctx, doctor); err != nil {
		if store.IsDuplicate(err) {
			return failure("A doctor with this email already exists.")
		}
		return failure("Failed to register doctor: " + err.Error())
	}
	return Response{Success: true, Message: "Doctor registered successfully!", DoctorID: doctor.ID, Details: doctor}
}

func (a *Agent) registerPatient(ctx context.Context, question string) Response {
	details, err := extract[patientRegistration](ctx, a.llm, patientRegistrationPrompt+question)
	if err != nil {
		log.Printf("patient registration extraction failed: %v", err)
		return failure("I couldn't understand the patient details. Please provide first name, last name and email.")
	}
	if details.FirstName == nil || details.LastName == nil || details.Email == nil {
		return failure("Missing required details for patient registration (first name, last name, email).")
	}

	patient := &models.Patient{
		FirstName:             *details.FirstName,
		LastName:              *details.LastName,
		Email:                 *details.Email,
		Phone:                 strOrEmpty(details.Phone),
		DateOfBirth:           details.DateOfBirth,
		Gender:                strOrEmpty(details.Gender),
		Address:               strOrEmpty(details.Address),
		EmergencyContactName:  strOrEmpty(details.EmergencyContactName),
		EmergencyContactPhone: strOrEmpty(details.EmergencyContactPhone),
		IsActive:              true,
	}
	if err := a.store.CreatePatient(ctx, patient); err != nil {
		if store.IsDuplicate(err) {
			return failure("A patient with this email already exists.")
		}
		return failure("Failed to register patient: " + err.Error())
	}
	return Response{Success: true, Message: "Patient registered successfully!", PatientID: patient.ID, Details: patient}
}

func (a *Agent) registerSpecialization(ctx context.Context, question string) Response {
	details, err := extract[specializationRegistration](ctx, a.llm, specializationRegistrationPrompt+question)
	if err != nil {
		log.Printf("specialization extraction failed: %v", err)
		return failure("I couldn't understand the specialization details. Please provide a name.")
	}
	if details.Name == nil || *details.Name == "" {
		return failure("Missing required details for specialization registration (name).")
	}

	spec := &models.Specialization{
		Name:        *details.Name,
		Description: strOrEmpty(details.Description),
	}
	if err := a.store.CreateSpecialization(ctx, spec); err != nil {
		if store.IsDuplicate(err) {
			return failure("A specialization with this name already exists.")
		}
		return failure("Failed to register specialization: " + err.Error())
	}
	return Response{Success: true, Message: "Specialization registered successfully!", SpecializationID: spec.ID, Details: spec}
}

func (a *Agent) registerAvailability(ctx context.Context, question string) Response {
	details, err := extract[availabilityRegistration](ctx, a.llm, availabilityRegistrationPrompt+question)
	if err != nil {
		log.Printf("availability extraction failed: %v", err)
		return failure("I couldn't understand the availability details. Please provide doctor name, day of week, start time and end time.")
	}
	if details.DoctorName == nil || details.DayOfWeek == nil || details.StartTime == nil || details.EndTime == nil {
		return failure("Missing required details for availability registration (doctor name, day of week, start time, end time).")
	}
	if *details.DayOfWeek < 0 || *details.DayOfWeek > 6 {
		return failure("Day of week must be between 0 (Sunday) and 6 (Saturday).")
	}
	if err := scheduling.ValidateWindow(*details.StartTime, *details.EndTime); err != nil {
		if errors.Is(err, scheduling.ErrInvalidWindow) {
			return failure("The availability start time must be before the end time.")
		}
		return failure("Invalid availability times: " + err.Error())
	}

	doctor, err := a.store.FindDoctorByName(ctx, *details.DoctorName)
	if err != nil {
		if store.IsNotFound(err) {
			return failure(fmt.Sprintf("No doctor found matching %q.", *details.DoctorName))
		}
		return failure("Failed to look up the doctor: " + err.Error())
	}

	availability := &models.DoctorAvailability{
		DoctorID:            doctor.ID,
		DayOfWeek:           *details.DayOfWeek,
		StartTime:           *details.StartTime,
		EndTime:             *details.EndTime,
		SlotDurationMinutes: intOrDefault(details.SlotDurationMinutes, 30),
		MaxPatientsPerSlot:  intOrDefault(details.MaxPatientsPerSlot, 1),
		IsActive:            true,
	}
	if err := a.store.CreateAvailability(ctx, availability); err != nil {
		return failure("Failed to register doctor availability: " + err.Error())
	}
	return Response{Success: true, Message: "Doctor availability registered successfully!", AvailabilityID: availability.ID, Details: availability}
}

func (a *Agent) bookAppointment(ctx context.Context, question string) Response {
	details, err := extract[appointmentDetails](ctx, a.llm, fmt.Sprintf(appointmentDetailsPrompt, "booking")+question)
	if err != nil {
		log.Printf("booking extraction failed: %v", err)
		return failure("I couldn't understand the booking request. Please provide doctor, patient, date and time.")
	}
	if details.DoctorName == nil || details.PatientName == nil || details.AppointmentDate == nil || details.AppointmentTime == nil {
		return failure("Missing required details for booking (doctor, patient, date, time).")
	}

	doctor, err := a.store.FindDoctorByName(ctx, *details.DoctorName)
	if err != nil {
		if store.IsNotFound(err) {
			return failure(fmt.Sprintf("No doctor found matching %q.", *details.DoctorName))
		}
		return failure("Failed to look up the doctor: " + err.Error())
	}
	patient, err := a.store.FindPatientByName(ctx, *details.PatientName)
	if err != nil {
		if store.IsNotFound(err) {
			return failure(fmt.Sprintf("No patient found matching %q.", *details.PatientName))
		}
		return failure("Failed to look up the patient: " + err.Error())
	}

	// Duration follows the doctor's slot granularity for that day.
	resp, duration, ok := a.checkSchedule(ctx, scheduling.Request{
		DoctorID: doctor.ID,
		Date:     *details.AppointmentDate,
		Time:     *details.AppointmentTime,
	})
	if !ok {
		return resp
	}

	appointment := &models.Appointment{
		PatientID:       patient.ID,
		DoctorID:        doctor.ID,
		AppointmentDate: *details.AppointmentDate,
		AppointmentTime: *details.AppointmentTime,
		DurationMinutes: duration,
		Status:          models.StatusScheduled,
		Reason:          strOrEmpty(details.ReasonForVisit),
	}
	if err := a.store.CreateAppointment(ctx, appointment); err != nil {
		// The unique constraint is the final guard against a racing booking.
		if store.IsDuplicate(err) {
			return failure(slotConflictMessage)
		}
		return failure("Failed to book the appointment: " + err.Error())
	}
	return Response{Success: true, Message: "Appointment booked!", AppointmentID: appointment.ID, Details: appointment}
}

func (a *Agent) cancelAppointment(ctx context.Context, question string) Response {
	details, err := extract[appointmentDetails](ctx, a.llm, fmt.Sprintf(appointmentDetailsPrompt, "cancellation")+question)
	if err != nil {
		log.Printf("cancellation extraction failed: %v", err)
		return failure("I couldn't understand the cancellation request. Please mention the appointment id or the doctor, patient, date and time.")
	}

	appointment, resp, ok := a.resolveAppointment(ctx, details)
	if !ok {
		return resp
	}
	if err := a.store.CancelAppointment(ctx, appointment.ID); err != nil {
		return failure(fmt.Sprintf("Failed to cancel appointment %s: %v", appointment.ID, err))
	}
	return Response{
		Success:       true,
		Message:       fmt.Sprintf("Appointment %s cancelled.", appointment.ID),
		AppointmentID: appointment.ID,
		Details:       appointment,
	}
}

func (a *Agent) rescheduleAppointment(ctx context.Context, question string) Response {
	details, err := extract[appointmentDetails](ctx, a.llm, fmt.Sprintf(appointmentDetailsPrompt, "reschedule")+question)
	if err != nil {
		log.Printf("reschedule extraction failed: %v", err)
		return failure("I couldn't understand the reschedule request. Please mention the appointment and the new date and time.")
	}

	appointment, resp, ok := a.resolveAppointment(ctx, details)
	if !ok {
		return resp
	}

	newDate := strOrEmpty(details.NewAppointmentDate)
	if newDate == "" {
		newDate = strOrEmpty(details.AppointmentDate)
	}
	newTime := strOrEmpty(details.NewAppointmentTime)
	if newTime == "" {
		newTime = strOrEmpty(details.AppointmentTime)
	}
	if newDate == "" || newTime == "" {
		return failure("Missing new date/time for rescheduling.")
	}

	// Revalidate against the new slot; the moved appointment does not
	// conflict with itself.
	if resp, _, ok := a.checkSchedule(ctx, scheduling.Request{
		DoctorID:             appointment.DoctorID,
		Date:                 newDate,
		Time:                 newTime,
		DurationMinutes:      appointment.DurationMinutes,
		ExcludeAppointmentID: appointment.ID,
	}); !ok {
		return resp
	}

	if err := a.store.RescheduleAppointment(ctx, appointment.ID, newDate, newTime); err != nil {
		if store.IsDuplicate(err) {
			return failure(slotConflictMessage)
		}
		return failure(fmt.Sprintf("Failed to reschedule appointment %s: %v", appointment.ID, err))
	}
	return Response{
		Success:       true,
		Message:       fmt.Sprintf("Appointment %s rescheduled to %s at %s.", appointment.ID, newDate, newTime),
		AppointmentID: appointment.ID,
	}
}

const slotConflictMessage = "Selected slot is already booked for this doctor. Please choose another time."

// checkSchedule runs the scheduling validator and translates its errors into
// user-facing failures. ok is true when the slot is legal; the returned
// duration is the effective booking length in minutes.
func (a *Agent) checkSchedule(ctx context.Context, req scheduling.Request) (Response, int, bool) {
	windows, err := a.store.ListAvailability(ctx, req.DoctorID)
	if err != nil {
		return failure("Failed to load the doctor's availability: " + err.Error()), 0, false
	}
	existing, err := a.store.ListAppointments(ctx, store.AppointmentFilter{DoctorID: req.DoctorID, Date: req.Date})
	if err != nil {
		return failure("Failed to load the doctor's appointments: " + err.Error()), 0, false
	}

	duration := scheduling.EffectiveDuration(req, windows)
	switch err := scheduling.Validate(req, windows, existing); {
	case err == nil:
		return Response{}, duration, true
	case errors.Is(err, scheduling.ErrNoAvailability):
		return failure("The doctor has no availability on the requested day."), 0, false
	case errors.Is(err, scheduling.ErrOutsideAvailability):
		return failure("The requested time is outside the doctor's availability window."), 0, false
	case errors.Is(err, scheduling.ErrSlotConflict):
		return failure(slotConflictMessage), 0, false
	default:
		return failure("Invalid appointment request: " + err.Error()), 0, false
	}
}

// resolveAppointment identifies the appointment a cancel/reschedule refers
// to, by id when given, otherwise by doctor/patient/date/time.
func (a *Agent) resolveAppointment(ctx context.Context, details appointmentDetails) (*models.Appointment, Response, bool) {
	if details.AppointmentID != nil && *details.AppointmentID != "" {
		appointment, err := a.store.GetAppointment(ctx, *details.AppointmentID)
		if err != nil {
			if store.IsNotFound(err) {
				return nil, failure(fmt.Sprintf("Appointment %s not found.", *details.AppointmentID)), false
			}
			return nil, failure("Failed to look up the appointment: " + err.Error()), false
		}
		return appointment, Response{}, true
	}

	filter := store.AppointmentFilter{Date: strOrEmpty(details.AppointmentDate)}
	if details.DoctorName != nil {
		doctor, err := a.store.FindDoctorByName(ctx, *details.DoctorName)
		if err == nil {
			filter.DoctorID = doctor.ID
		}
	}
	if details.PatientName != nil {
		patient, err := a.store.FindPatientByName(ctx, *details.PatientName)
		if err == nil {
			filter.PatientID = patient.ID
		}
	}
	if filter.DoctorID == "" && filter.PatientID == "" {
		return nil, failure("Could not identify the appointment. Please mention its id or the doctor and patient."), false
	}

	appointments, err := a.store.ListAppointments(ctx, filter)
	if err != nil {
		return nil, failure("Failed to look up appointments: " + err.Error()), false
	}
	wantTime := strOrEmpty(details.AppointmentTime)
	for i := range appointments {
		if appointments[i].Status == models.StatusCancelled {
			continue
		}
		if wantTime == "" || sameClock(appointments[i].AppointmentTime, wantTime) {
			return &appointments[i], Response{}, true
		}
	}
	return nil, failure("Could not identify the appointment to modify."), false
}

func sameClock(a, b string) bool {
	am, errA := scheduling.MinutesOfDay(a)
	bm, errB := scheduling.MinutesOfDay(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return am == bm
}

// query answers read-only questions: common listings directly, anything else
// through an LLM-generated SELECT.
func (a *Agent) query(ctx context.Context, question string) Response {
	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "doctor"):
		doctors, err := a.store.SearchDoctors(ctx, "")
		if err != nil {
			return failure("Failed to list doctors: " + err.Error())
		}
		return Response{Success: true, Message: fmt.Sprintf("Found %d doctors.", len(doctors)), Details: doctors}
	case strings.Contains(q, "patient"):
		patients, err := a.store.SearchPatients(ctx, "")
		if err != nil {
			return failure("Failed to list patients: " + err.Error())
		}
		return Response{Success: true, Message: fmt.Sprintf("Found %d patients.", len(patients)), Details: patients}
	case strings.Contains(q, "appointment"):
		appointments, err := a.store.ListAppointments(ctx, a.appointmentFilterFor(ctx, question))
		if err != nil {
			return failure("Failed to list appointments: " + err.Error())
		}
		return Response{Success: true, Message: fmt.Sprintf("Found %d appointments.", len(appointments)), Details: appointments}
	}

	return a.sqlFallback(ctx, question)
}

// appointmentFilterFor narrows an appointment listing to whatever doctor,
// patient or date the question mentions. Extraction failures leave the
// filter empty, which lists everything.
func (a *Agent) appointmentFilterFor(ctx context.Context, question string) store.AppointmentFilter {
	var filter store.AppointmentFilter
	details, err := extract[appointmentDetails](ctx, a.llm, fmt.Sprintf(appointmentDetailsPrompt, "lookup")+question)
	if err != nil {
		return filter
	}
	filter.Date = strOrEmpty(details.AppointmentDate)
	if details.DoctorName != nil && *details.DoctorName != "" {
		if doctor, err := a.store.FindDoctorByName(ctx, *details.DoctorName); err == nil {
			filter.DoctorID = doctor.ID
		}
	}
	if details.PatientName != nil && *details.PatientName != "" {
		if patient, err := a.store.FindPatientByName(ctx, *details.PatientName); err == nil {
			filter.PatientID = patient.ID
		}
	}
	return filter
}

const sqlPrompt = "You are a helpful assistant for a doctor appointment management database. " +
	"Given a user's question, generate a single valid SELECT query for a PostgreSQL database. " +
	"Available tables:\n" +
	"1. 'doctors' (id, first_name, last_name, email, phone, specialization_id, license_number, experience_years, consultation_fee, is_active, created_at, updated_at)\n" +
	"2. 'patients' (id, first_name, last_name, email, phone, date_of_birth, gender, address, emergency_contact_name, emergency_contact_phone, is_active, created_at, updated_at)\n" +
	"3. 'appointments' (id, patient_id, doctor_id, appointment_date, appointment_time, duration_minutes, status, reason, notes, created_at, updated_at)\n" +
	"4. 'specializations' (id, name, description, created_at, updated_at)\n" +
	"5. 'doctor_availability' (id, doctor_id, day_of_week, start_time, end_time, slot_duration_minutes, max_patients_per_slot, is_active, created_at, updated_at)\n" +
	"Only output the SQL query, nothing else. Never generate INSERT, UPDATE or DELETE statements.\n\n%s"

func (a *Agent) sqlFallback(ctx context.Context, question string) Response {
	reply, err := a.llm.Chat(ctx, fmt.Sprintf(sqlPrompt, question))
	if err != nil {
		log.Printf("SQL generation failed: %v", err)
		return failure("I couldn't work out how to answer that. Could you rephrase the question?")
	}
	sql := llm.StripFence(reply)
	rows, err := a.store.SelectRows(ctx, sql)
	if err != nil {
		log.Printf("SQL fallback query failed: %v", err)
		return failure("I couldn't answer that question from the database. Could you rephrase it?")
	}
	return Response{Success: true, Message: fmt.Sprintf("Found %d results.", len(rows)), Results: rows, SQL: sql}
}

const helpMessage = "I can help you manage doctor appointments. Try commands like: " +
	"'Register doctor John Smith, email john@clinic.com, specialization Cardiology', " +
	"'Register patient Alice Brown, email alice@example.com', " +
	"'Add availability for Dr. Smith on Monday from 09:00 to 17:00', " +
	"'Book an appointment for Alice Brown with Dr. Smith on 2026-09-07 at 09:30', " +
	"'Reschedule appointment <id> to 2026-09-08 at 10:00', " +
	"'Cancel appointment <id>', or " +
	"'List all doctors'."

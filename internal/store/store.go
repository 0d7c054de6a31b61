package store

import (
	"context"
	"errors"
	"strings"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ai-assistant-server/internal/models"
)

// Store wraps all database access for the assistant.
type Store struct {
	db *gorm.DB
}

// New creates a Store.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// IsNotFound reports whether err means the record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate reports whether err is a unique-constraint violation.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// --- Settings knowledge base ---

// ListSettings returns all settings metadata rows with their embeddings.
func (s *Store) ListSettings(ctx context.Context) ([]models.SettingMetadata, error) {
	var settings []models.SettingMetadata
	err := s.db.WithContext(ctx).Order("name asc").Find(&settings).Error
	return settings, err
}

// GetInsight returns the insight for one setting.
func (s *Store) GetInsight(ctx context.Context, name string) (*models.Insight, error) {
	var insight models.Insight
	if err := s.db.WithContext(ctx).First(&insight, "settings_name = ?", name).Error; err != nil {
		return nil, err
	}
	return &insight, nil
}

// NearestInsightSetting finds the setting whose insight embedding is closest
// to the given vector.
func (s *Store) NearestInsightSetting(ctx context.Context, embedding []float32) (string, error) {
	var row models.InsightEmbedding
	err := s.db.WithContext(ctx).
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:  "embedding <-> ?",
			Vars: []interface{}{pgvector.NewVector(embedding)},
		}}).
		First(&row).Error
	if err != nil {
		return "", err
	}
	return row.SettingsName, nil
}

// --- Specializations ---

func (s *Store) CreateSpecialization(ctx context.Context, spec *models.Specialization) error {
	return s.db.WithContext(ctx).Create(spec).Error
}

func (s *Store) GetSpecializationByName(ctx context.Context, name string) (*models.Specialization, error) {
	var spec models.Specialization
	if err := s.db.WithContext(ctx).First(&spec, "LOWER(name) = LOWER(?)", name).Error; err != nil {
		return nil, err
	}
	return &spec, nil
}

// GetOrCreateSpecialization resolves a specialization by name, creating it
// when absent. Doctor registration mentions specializations by name only.
func (s *Store) GetOrCreateSpecialization(ctx context.Context, name string) (*models.Specialization, error) {
	spec, err := s.GetSpecializationByName(ctx, name)
	if err == nil {
		return spec, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}
	created := &models.Specialization{Name: name}
	if err := s.CreateSpecialization(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

// --- Doctors ---

func (s *Store) CreateDoctor(ctx context.Context, doctor *models.Doctor) error {
	return s.db.WithContext(ctx).Create(doctor).Error
}

func (s *Store) GetDoctor(ctx context.Context, id string) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := s.db.WithContext(ctx).Preload("Specialization").First(&doctor, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doctor, nil
}

// FindDoctorByName resolves a doctor from a free-text name fragment.
func (s *Store) FindDoctorByName(ctx context.Context, name string) (*models.Doctor, error) {
	var doctor models.Doctor
	pattern := "%" + strings.TrimSpace(name) + "%"
	err := s.db.WithContext(ctx).
		Where("LOWER(first_name || ' ' || last_name) LIKE LOWER(?)", pattern).
		Where("is_active = ?", true).
		First(&doctor).Error
	if err != nil {
		return nil, err
	}
	return &doctor, nil
}

// SearchDoctors lists active doctors whose name or email matches the query.
func (s *Store) SearchDoctors(ctx context.Context, query string) ([]models.Doctor, error) {
	var doctors []models.Doctor
	tx := s.db.WithContext(ctx).Preload("Specialization").Where("is_active = ?", true)
	if query != "" {
		pattern := "%" + query + "%"
		tx = tx.Where(
			"LOWER(first_name) LIKE LOWER(?) OR LOWER(last_name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)",
			pattern, pattern, pattern,
		)
	}
	err := tx.Order("last_name, first_name asc").Find(&doctors).Error
	return doctors, err
}

// --- Patients ---

func (s *Store) CreatePatient(ctx context.Context, patient *models.Patient) error {
	return s.db.WithContext(ctx).Create(patient).Error
}

func (s *Store) GetPatient(ctx context.Context, id string) (*models.Patient, error) {
	var patient models.Patient
	if err := s.db.WithContext(ctx).First(&patient, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &patient, nil
}

func (s *Store) FindPatientByName(ctx context.Context, name string) (*models.Patient, error) {
	var patient models.Patient
	pattern := "%" + strings.TrimSpace(name) + "%"
	err := s.db.WithContext(ctx).
		Where("LOWER(first_name || ' ' || last_name) LIKE LOWER(?)", pattern).
		Where("is_active = ?", true).
		First(&patient).Error
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

func (s *Store) SearchPatients(ctx context.Context, query string) ([]models.Patient, error) {
	var patients []models.Patient
	tx := s.db.WithContext(ctx).Where("is_active = ?", true)
	if query != "" {
		pattern := "%" + query + "%"
		tx = tx.Where(
			"LOWER(first_name) LIKE LOWER(?) OR LOWER(last_name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)",
			pattern, pattern, pattern,
		)
	}
	err := tx.Order("last_name, first_name asc").Find(&patients).Error
	return patients, err
}

// --- Doctor availability ---

func (s *Store) CreateAvailability(ctx context.Context, availability *models.DoctorAvailability) error {
	return s.db.WithContext(ctx).Create(availability).Error
}

// ListAvailability returns a doctor's active availability windows, ordered by
// start time.
func (s *Store) ListAvailability(ctx context.Context, doctorID string) ([]models.DoctorAvailability, error) {
	var windows []models.DoctorAvailability
	err := s.db.WithContext(ctx).
		Where("doctor_id = ? AND is_active = ?", doctorID, true).
		Order("day_of_week, start_time asc").
		Find(&windows).Error
	return windows, err
}

// --- Appointments ---

func (s *Store) CreateAppointment(ctx context.Context, appointment *models.Appointment) error {
	return s.db.WithContext(ctx).Create(appointment).Error
}

func (s *Store) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	var appointment models.Appointment
	err := s.db.WithContext(ctx).Preload("Patient").Preload("Doctor").First(&appointment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

// AppointmentFilter narrows ListAppointments. Zero values are ignored.
type AppointmentFilter struct {
	DoctorID  string
	PatientID string
	Date      string
	Status    models.AppointmentStatus
}

func (s *Store) ListAppointments(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, error) {
	tx := s.db.WithContext(ctx)
	if filter.DoctorID != "" {
		tx = tx.Where("doctor_id = ?", filter.DoctorID)
	}
	if filter.PatientID != "" {
		tx = tx.Where("patient_id = ?", filter.PatientID)
	}
	if filter.Date != "" {
		tx = tx.Where("appointment_date = ?", filter.Date)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	var appointments []models.Appointment
	err := tx.Order("appointment_date, appointment_time asc").Find(&appointments).Error
	return appointments, err
}

// RescheduleAppointment moves an appointment to a new date and time.
func (s *Store) RescheduleAppointment(ctx context.Context, id, date, clock string) error {
	result := s.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"appointment_date": date,
			"appointment_time": clock,
			"status":           models.StatusScheduled,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CancelAppointment marks an appointment cancelled, freeing its slot.
func (s *Store) CancelAppointment(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("id = ?", id).
		Update("status", models.StatusCancelled)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// --- Read-only SQL fallback ---

// SelectRows runs a SELECT statement produced by the query fallback. Anything
// other than a single SELECT is refused.
func (s *Store) SelectRows(ctx context.Context, query string) ([]map[string]interface{}, error) {
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(query), ";"))
	if !strings.HasPrefix(strings.ToLower(trimmed), "select") {
		return nil, errors.New("only SELECT statements are allowed")
	}
	if strings.Contains(trimmed, ";") {
		return nil, errors.New("multiple statements are not allowed")
	}
	var rows []map[string]interface{}
	err := s.db.WithContext(ctx).Raw(trimmed).Scan(&rows).Error
	return rows, err
}
